package locale

import (
	"testing"
	"testing/fstest"

	"ServerDesk/entity"

	"github.com/stretchr/testify/require"
)

func TestEmbeddedCatalogIsComplete(t *testing.T) {
	b, err := LoadEmbedded(BaseLocale)
	require.NoError(t, err)
	require.NoError(t, b.Validate())
}

func TestResolveFallsBackToKey(t *testing.T) {
	b, err := LoadEmbedded("en-US")
	require.NoError(t, err)

	require.Equal(t, "Map:", b.Resolve(KeyMapLabel))
	require.Equal(t, "No_Such_Key", b.Resolve("No_Such_Key"))

	_, ok := b.Lookup(MapKey("Unknown_Map"))
	require.False(t, ok)
	name, ok := b.Lookup(MapKey("ConanSandbox"))
	require.True(t, ok)
	require.Equal(t, "The Exiled Lands", name)
}

func TestTranslate(t *testing.T) {
	b, err := LoadEmbedded("en-US")
	require.NoError(t, err)

	require.Equal(t, "", b.Translate("  "))
	require.Equal(t, "Status:", b.Translate(KeyStatusLabel))
	require.Equal(t, "whatever", b.Translate("whatever"))
}

func TestFormat(t *testing.T) {
	b, err := LoadEmbedded("en-US")
	require.NoError(t, err)

	require.Equal(t, "Unknown command: Foo", b.Format(KeyCommandUnknown, "Foo"))
	require.Equal(t, "No server profile found with id p-9.", b.Format(KeyProfileNotFound, "p-9"))
}

func TestLocaleSelectionMergesOverBase(t *testing.T) {
	b, err := LoadEmbedded("de")
	require.NoError(t, err)

	require.Equal(t, "de-DE", b.Tag().String())
	require.Equal(t, "Karte:", b.Resolve(KeyMapLabel))
	// Only defined in the base catalog.
	require.Equal(t, "Isle of Siptah", b.Resolve(MapKey("DLC_Isle_of_Siptah")))
}

func TestUnknownLocaleUsesBase(t *testing.T) {
	b, err := LoadEmbedded("ja-JP")
	require.NoError(t, err)
	require.Equal(t, "Map:", b.Resolve(KeyMapLabel))
}

func TestFormatGroupsNumbers(t *testing.T) {
	b, err := LoadEmbedded("en-US")
	require.NoError(t, err)
	require.Equal(t, "Unknown command: 2", b.Format(KeyCommandUnknown, 2))
	require.Equal(t, "No server profile found with id 12,345.", b.Format(KeyProfileNotFound, 12345))
}

func TestAvailabilityKeys(t *testing.T) {
	b, err := LoadEmbedded("en-US")
	require.NoError(t, err)

	require.Equal(t, "Available", b.Resolve(AvailabilityKey(entity.AvailabilityAvailable)))
	require.Equal(t, "Unknown", b.Resolve(AvailabilityKey(entity.Availability(42))))
}

func TestValidateReportsMissingKeys(t *testing.T) {
	fsys := fstest.MapFS{
		"locales/en-US.yaml": {Data: []byte("locale: en-US\nmessages:\n  DiscordBot_MapLabel: \"Map:\"\n")},
	}
	b, err := LoadFromFS(fsys, "en-US")
	require.NoError(t, err)

	err = b.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), KeyCommandRunning)
	require.Contains(t, err.Error(), "ServerSettings_Availability_Waiting")
}

func TestLoadRequiresBaseLocale(t *testing.T) {
	fsys := fstest.MapFS{
		"locales/de-DE.yaml": {Data: []byte("locale: de-DE\nmessages:\n  a: \"b\"\n")},
	}
	_, err := LoadFromFS(fsys, "de-DE")
	require.Error(t, err)
}
