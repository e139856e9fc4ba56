package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

const testDirectory = `[
  {"id": 1, "name": "Austin Barber College", "address": "100 Congress Ave, Austin, TX 78701", "coords": {"lat": 30.2672, "lng": -97.7431}, "phone": "(512) 555-0100"},
  {"id": 2, "name": "Texas Barber & Beauty Academy", "address": "500 Commerce St, San Antonio, TX 78205", "coords": {"lat": 29.4241, "lng": -98.4936}}
]`

// runApp runs the CLI against local directory and geocoder servers.
func runApp(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	dir := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(testDirectory))
	}))
	t.Cleanup(dir.Close)
	geo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	t.Cleanup(geo.Close)

	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out
	app.Reader = strings.NewReader(stdin)

	full := append([]string{
		"schoolfinder",
		"--log-level", "error",
		"--directory-url", dir.URL + "/texas.json",
		"--nominatim-url", geo.URL,
		"--geocode-cache-ttl", "0",
	}, args...)
	err := app.Run(full)
	return out.String(), err
}

func findStringFlag(flags []cli.Flag, name string) *cli.StringFlag {
	for _, flag := range flags {
		if f, ok := flag.(*cli.StringFlag); ok && f.Name == name {
			return f
		}
	}
	return nil
}

func findCommand(app *cli.App, name string) *cli.Command {
	for _, cmd := range app.Commands {
		if cmd.Name == name {
			return cmd
		}
	}
	return nil
}

func TestAppFlags(t *testing.T) {
	app := newApp()

	t.Run("log-level defaults to warn", func(t *testing.T) {
		f := findStringFlag(app.Flags, "log-level")
		require.NotNil(t, f)
		assert.Equal(t, "warn", f.Value)
		assert.Equal(t, []string{"SCHOOLFINDER_LOG_LEVEL"}, f.EnvVars)
	})

	t.Run("nominatim-url has default value", func(t *testing.T) {
		f := findStringFlag(app.Flags, "nominatim-url")
		require.NotNil(t, f)
		assert.Equal(t, "https://nominatim.openstreetmap.org", f.Value)
	})

	t.Run("metrics-addr has no default", func(t *testing.T) {
		f := findStringFlag(app.Flags, "metrics-addr")
		require.NotNil(t, f)
		assert.Empty(t, f.Value)
	})

	t.Run("commands take their own source flag", func(t *testing.T) {
		for _, name := range []string{"search", "suggest", "profile", "interactive"} {
			cmd := findCommand(app, name)
			require.NotNil(t, cmd, name)
			f := findStringFlag(cmd.Flags, "source")
			require.NotNil(t, f, name)
			assert.Equal(t, "texas", f.Value)
		}
	})

	t.Run("profile id is required", func(t *testing.T) {
		cmd := findCommand(app, "profile")
		require.NotNil(t, cmd)
		f := findStringFlag(cmd.Flags, "id")
		require.NotNil(t, f)
		assert.True(t, f.Required)
	})
}

func TestSetupLogger(t *testing.T) {
	t.Run("invalid level", func(t *testing.T) {
		_, err := runApp(t, "", "--log-level", "chatty", "sources")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})

	t.Run("level is case insensitive", func(t *testing.T) {
		_, err := runApp(t, "", "--log-level", "DEBUG", "sources")
		assert.NoError(t, err)
	})
}

func TestSourcesCommand(t *testing.T) {
	out, err := runApp(t, "", "sources")
	require.NoError(t, err)
	assert.Contains(t, out, "texas\tAll Texas\thttp://")
	assert.Contains(t, out, "0 (Exact match)")
	assert.Contains(t, out, "100 (100 miles)")
}

func TestSearchCommand(t *testing.T) {
	t.Run("text match", func(t *testing.T) {
		out, err := runApp(t, "", "search", "--query", "Austin")
		require.NoError(t, err)
		assert.Contains(t, out, "Austin Barber College")
		assert.NotContains(t, out, "Texas Barber & Beauty Academy")
	})

	t.Run("query from arguments", func(t *testing.T) {
		out, err := runApp(t, "", "search", "San", "Antonio")
		require.NoError(t, err)
		assert.Contains(t, out, "Texas Barber & Beauty Academy")
		assert.NotContains(t, out, "Austin Barber College")
	})

	t.Run("near me", func(t *testing.T) {
		out, err := runApp(t, "", "search", "--lat", "30.27", "--lng", "-97.74")
		require.NoError(t, err)
		assert.Contains(t, out, "Austin Barber College")
		assert.Contains(t, out, " mi)")
		assert.Contains(t, out, "Center: 30.2700, -97.7400")
	})

	t.Run("lat without lng", func(t *testing.T) {
		_, err := runApp(t, "", "search", "--lat", "30.27")
		assert.Error(t, err)
	})

	t.Run("invalid radius", func(t *testing.T) {
		_, err := runApp(t, "", "search", "--radius", "7", "--query", "Austin")
		assert.Error(t, err)
	})

	t.Run("unknown source", func(t *testing.T) {
		_, err := runApp(t, "", "search", "--source", "ohio", "--query", "Austin")
		assert.Error(t, err)
	})
}

func TestProfileCommand(t *testing.T) {
	out, err := runApp(t, "", "profile", "--id", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Austin Barber College")
	assert.Contains(t, out, "tel:5125550100")
	assert.Contains(t, out, "Directions: https://")

	_, err = runApp(t, "", "profile", "--id", "42")
	assert.Error(t, err)
}

func TestPreloadCommand(t *testing.T) {
	out, err := runApp(t, "", "preload", "--workers", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "texas\t2 institutions")
	assert.Contains(t, out, "[1/1] All Texas (texas): loaded 2 institutions")
}

func TestInteractiveCommand(t *testing.T) {
	out, err := runApp(t, "Austin\n:radius 7\n:open 2\n:quit\n", "interactive")
	require.NoError(t, err)
	assert.Contains(t, out, "Loaded directory for All Texas")
	assert.Contains(t, out, "Austin Barber College")
	assert.Contains(t, out, "Texas Barber & Beauty Academy")
}

func TestParseCoordinate(t *testing.T) {
	c, err := parseCoordinate("30.5, -97.5")
	require.NoError(t, err)
	assert.Equal(t, 30.5, c.Lat)
	assert.Equal(t, -97.5, c.Lng)

	_, err = parseCoordinate("30.5")
	assert.Error(t, err)

	_, err = parseCoordinate("95 10")
	assert.Error(t, err)
}
