// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func main() {
	_ = godotenv.Load(".env")

	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "schoolfinder",
		Usage: "Location-aware search over a directory of schools",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "warn",
				EnvVars: []string{"SCHOOLFINDER_LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "directory-url",
				Usage:   "Override the download URL of every data source",
				EnvVars: []string{"SCHOOLFINDER_DIRECTORY_URL"},
			},
			&cli.StringFlag{
				Name:    "nominatim-url",
				Usage:   "Nominatim service root",
				Value:   "https://nominatim.openstreetmap.org",
				EnvVars: []string{"SCHOOLFINDER_NOMINATIM_URL"},
			},
			&cli.StringFlag{
				Name:    "user-agent",
				Usage:   "User-Agent sent to the geocoder",
				Value:   "schoolfinder/1.0 (+https://github.com/poiesic/schoolfinder)",
				EnvVars: []string{"SCHOOLFINDER_USER_AGENT"},
			},
			&cli.StringFlag{
				Name:    "country-codes",
				Usage:   "Restrict geocoding to these ISO country codes",
				Value:   "us",
				EnvVars: []string{"SCHOOLFINDER_COUNTRY_CODES"},
			},
			&cli.DurationFlag{
				Name:    "geocode-timeout",
				Usage:   "Timeout for each geocoder request",
				Value:   10 * time.Second,
				EnvVars: []string{"SCHOOLFINDER_GEOCODE_TIMEOUT"},
			},
			&cli.DurationFlag{
				Name:    "geocode-cache-ttl",
				Usage:   "Cache successful geocodes for this long (0 disables the cache)",
				Value:   time.Hour,
				EnvVars: []string{"SCHOOLFINDER_GEOCODE_CACHE_TTL"},
			},
			&cli.StringFlag{
				Name:    "metrics-addr",
				Usage:   "Serve Prometheus metrics on this address, e.g. :9090",
				EnvVars: []string{"SCHOOLFINDER_METRICS_ADDR"},
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "sources",
				Usage:  "List the available data sources",
				Action: sourcesCommand,
			},
			{
				Name:      "search",
				Usage:     "Resolve a query and print the ranked results",
				ArgsUsage: "[query]",
				Action:    searchCommand,
				Flags: []cli.Flag{
					sourceFlag(),
					&cli.StringFlag{
						Name:    "query",
						Aliases: []string{"q"},
						Usage:   "Search text; trailing arguments are used when empty",
					},
					&cli.IntFlag{
						Name:    "radius",
						Aliases: []string{"r"},
						Usage:   "Radius in miles (0, 10, 25, 50, 100); 0 is exact text matching",
						Value:   0,
					},
					&cli.Float64Flag{
						Name:  "lat",
						Usage: "Device latitude for a near-me search",
					},
					&cli.Float64Flag{
						Name:  "lng",
						Usage: "Device longitude for a near-me search",
					},
					&cli.BoolFlag{
						Name:  "commit",
						Usage: "Allow geocoding when nothing matches locally",
						Value: true,
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Print at most this many results (0 prints all)",
						Value: 20,
					},
				},
			},
			{
				Name:      "suggest",
				Usage:     "Print autocomplete suggestions for partial text",
				ArgsUsage: "<text>",
				Action:    suggestCommand,
				Flags:     []cli.Flag{sourceFlag()},
			},
			{
				Name:   "profile",
				Usage:  "Show the profile of one institution",
				Action: profileCommand,
				Flags: []cli.Flag{
					sourceFlag(),
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Institution id",
						Required: true,
					},
				},
			},
			{
				Name:   "preload",
				Usage:  "Download every data source concurrently",
				Action: preloadCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of concurrent downloads",
						Value: 4,
					},
				},
			},
			{
				Name:   "interactive",
				Usage:  "Read queries and commands from stdin",
				Action: interactiveCommand,
				Flags:  []cli.Flag{sourceFlag()},
			},
		},
	}
}

func sourceFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "source",
		Aliases: []string{"s"},
		Usage:   "Data source id (see the sources command)",
		Value:   "texas",
		EnvVars: []string{"SCHOOLFINDER_SOURCE"},
	}
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
