package common

// AuthorizationHeaderName carries the bearer session token on outbound
// requests to the authoritative API.
const AuthorizationHeaderName = "Authorization"

// OfflineIDPrefix marks identifiers minted locally before the server knows
// about a story.
const OfflineIDPrefix = "offline-"

// DefaultNotificationIcon is used for icon and badge when a push payload
// carries none.
const DefaultNotificationIcon = "/images/logo.png"
