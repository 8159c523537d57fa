package enums

// Device push endpoint platforms.
const (
	PLATFORM_IOS     = "ios"
	PLATFORM_ANDROID = "android"
	PLATFORM_WEB     = "web"
)

func IsValidPlatform(platform string) bool {
	switch platform {
	case PLATFORM_IOS, PLATFORM_ANDROID, PLATFORM_WEB:
		return true
	default:
		return false
	}
}
