package locale

import "ServerDesk/entity"

// Message keys used by the command dispatcher.
const (
	KeyCommandRunning        = "DiscordBot_CommandRunning"
	KeyCommandUnknown        = "DiscordBot_CommandUnknown"
	KeyCommandProfileMissing = "DiscordBot_CommandProfileMissing"
	KeyProfileNotFound       = "DiscordBot_CommandProfileNotFound"
	KeyInfoFailed            = "DiscordBot_CommandInfoFailed"
	KeyCountLabel            = "DiscordBot_CountLabel"
	KeyMapLabel              = "DiscordBot_MapLabel"
	KeyPlayersLabel          = "ServerSettings_PlayersLabel"
	KeyProfileIDLabel        = "ServerSettings_ProfileIdLabel"
	KeyProfileLabel          = "ServerSettings_ProfileLabel"
	KeyServerNameLabel       = "ServerSettings_ServerNameLabel"
	KeyStatusLabel           = "ServerSettings_StatusLabel"
	KeyAvailabilityLabel     = "ServerSettings_AvailabilityLabel"

	mapKeyPrefix = "Map_"
)

var requiredKeys = []string{
	KeyCommandRunning,
	KeyCommandUnknown,
	KeyCommandProfileMissing,
	KeyProfileNotFound,
	KeyInfoFailed,
	KeyCountLabel,
	KeyMapLabel,
	KeyPlayersLabel,
	KeyProfileIDLabel,
	KeyProfileLabel,
	KeyServerNameLabel,
	KeyStatusLabel,
	KeyAvailabilityLabel,
}

var availabilityKeys = map[entity.Availability]string{
	entity.AvailabilityUnknown:     "ServerSettings_Availability_Unknown",
	entity.AvailabilityUnavailable: "ServerSettings_Availability_Unavailable",
	entity.AvailabilityWaiting:     "ServerSettings_Availability_Waiting",
	entity.AvailabilityAvailable:   "ServerSettings_Availability_Available",
}

// AvailabilityKey returns the message key describing an availability value.
func AvailabilityKey(a entity.Availability) string {
	if key, ok := availabilityKeys[a]; ok {
		return key
	}
	return availabilityKeys[entity.AvailabilityUnknown]
}

// MapKey returns the message key holding the display name of a game map.
func MapKey(mapID string) string {
	return mapKeyPrefix + mapID
}
