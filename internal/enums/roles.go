package enums

// User roles. Conversation pairing requires at least one doctor; two
// patients may not open a conversation with each other.
const (
	ROLE_DOCTOR  = "doctor"
	ROLE_PATIENT = "patient"
)

func IsValidRole(role string) bool {
	return role == ROLE_DOCTOR || role == ROLE_PATIENT
}
