package enums

// Targets a like or comment can attach to.
const (
	TARGET_POST = "post"
	TARGET_REEL = "reel"
)
