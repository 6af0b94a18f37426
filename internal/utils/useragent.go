package utils

import (
	ua "github.com/mssola/user_agent"
)

// DeviceInfo holds parsed information from a User-Agent string
type DeviceInfo struct {
	DeviceType string `json:"device_type"` // mobile or desktop
	OS         string `json:"os"`
	Browser    string `json:"browser"`
	IsBot      bool   `json:"is_bot"`
}

// ParseUserAgent parses a User-Agent string and extracts device information
// for login audit logs.
func ParseUserAgent(userAgent string) DeviceInfo {
	if userAgent == "" {
		return DeviceInfo{
			DeviceType: "unknown",
			OS:         "Unknown",
			Browser:    "Unknown",
		}
	}

	parser := ua.New(userAgent)
	browser, _ := parser.Browser()

	deviceType := "desktop"
	if parser.Mobile() {
		deviceType = "mobile"
	}

	return DeviceInfo{
		DeviceType: deviceType,
		OS:         parser.OS(),
		Browser:    browser,
		IsBot:      parser.Bot(),
	}
}
