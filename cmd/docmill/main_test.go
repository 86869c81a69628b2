package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/docmill/docmill/core"
)

func TestSetupLogger(t *testing.T) {
	t.Run("accepts valid levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error", "INFO"} {
			app := &cli.App{
				Name: "test",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "log-level", Value: "info"},
				},
				Before: setupLogger,
				Action: func(c *cli.Context) error { return nil },
			}

			err := app.Run([]string{"test", "--log-level", level})
			assert.NoError(t, err, "level %q should be accepted", level)
		}
	})

	t.Run("rejects invalid level", func(t *testing.T) {
		app := &cli.App{
			Name: "test",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "log-level", Value: "info"},
			},
			Before: setupLogger,
			Action: func(c *cli.Context) error { return nil },
		}

		err := app.Run([]string{"test", "--log-level", "loud"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})
}

func TestParseDocumentID(t *testing.T) {
	id, err := parseDocumentID("42")
	require.NoError(t, err)
	assert.Equal(t, core.ID(42), id)

	_, err = parseDocumentID("not-a-number")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid document ID")

	_, err = parseDocumentID("-1")
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, "short", summarize("short", 10))
	assert.Equal(t, "one two", summarize("one\n  two", 10))
	assert.Equal(t, "abcde...", summarize("abcdefghij", 5))

	// Multibyte characters count as one and never get split mid-rune.
	assert.Equal(t, "héllo...", summarize("héllo wörld", 5))
	assert.Equal(t, "héllo wörld", summarize("héllo wörld", 11))
}

func TestIngestCommandRequiresFlags(t *testing.T) {
	app := &cli.App{
		Name: "docmill",
		Commands: []*cli.Command{
			{
				Name:   "ingest",
				Action: ingestCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "db", Required: true},
					&cli.StringFlag{Name: "analyzer-endpoint", Required: true},
					&cli.StringFlag{Name: "analyzer-key", Required: true},
				},
			},
		},
	}

	err := app.Run([]string{"docmill", "ingest", "--db", t.TempDir()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "analyzer-endpoint")
}
