package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/poiesic/schoolfinder"
	"github.com/poiesic/schoolfinder/core"
	"github.com/poiesic/schoolfinder/directory"
	"github.com/poiesic/schoolfinder/geocode"
	"github.com/poiesic/schoolfinder/metrics"
)

func configuredSources(c *cli.Context) []core.DataSource {
	sources := slices.Clone(core.DefaultSources)
	if u := c.String("directory-url"); u != "" {
		for i := range sources {
			sources[i].URL = u
		}
	}
	return sources
}

// openFinder builds a Finder from the global flags. The returned func
// releases it and stops the metrics listener.
func openFinder(c *cli.Context) (*schoolfinder.Finder, func(), error) {
	cfg := geocode.NewConfig(
		geocode.WithBaseURL(c.String("nominatim-url")),
		geocode.WithUserAgent(c.String("user-agent")),
		geocode.WithCountryCodes(c.String("country-codes")),
		geocode.WithTimeout(c.Duration("geocode-timeout")),
	)
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid geocoder configuration: %w", err)
	}

	opts := []schoolfinder.FinderOption{
		schoolfinder.WithGeocodeConfig(cfg),
		schoolfinder.WithSources(configuredSources(c)...),
		schoolfinder.WithLogger(slog.Default()),
	}
	if ttl := c.Duration("geocode-cache-ttl"); ttl > 0 {
		opts = append(opts, schoolfinder.WithGeocodeCache(ttl))
	}

	var srv *http.Server
	if addr := c.String("metrics-addr"); addr != "" {
		monitor, err := metrics.New(nil)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create metrics: %w", err)
		}
		opts = append(opts,
			schoolfinder.WithResolutionMonitor(monitor),
			schoolfinder.WithGeocodeObserver(monitor),
		)

		mux := http.NewServeMux()
		mux.Handle("/metrics", monitor.Handler())
		srv = &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics listener failed", "addr", addr, "err", err)
			}
		}()
	}

	f, err := schoolfinder.Open(opts...)
	if err != nil {
		if srv != nil {
			srv.Close()
		}
		return nil, nil, fmt.Errorf("failed to open finder: %w", err)
	}

	cleanup := func() {
		if srv != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			srv.Shutdown(ctx)
		}
		f.Close()
	}
	return f, cleanup, nil
}

func sourcesCommand(c *cli.Context) error {
	w := c.App.Writer
	for _, s := range configuredSources(c) {
		fmt.Fprintf(w, "%s\t%s\t%s\n", s.ID, s.Label, s.URL)
	}
	fmt.Fprintln(w)
	fmt.Fprint(w, "Radius options:")
	for _, r := range core.RadiusOptions {
		fmt.Fprintf(w, " %d (%s)", r.Miles, r.Label)
	}
	fmt.Fprintln(w)
	return nil
}

func searchCommand(c *cli.Context) error {
	ctx := context.Background()

	query := c.String("query")
	if query == "" {
		query = strings.Join(c.Args().Slice(), " ")
	}
	nearMe := c.IsSet("lat") || c.IsSet("lng")
	if nearMe && !(c.IsSet("lat") && c.IsSet("lng")) {
		return fmt.Errorf("--lat and --lng must be given together")
	}

	f, cleanup, err := openFinder(c)
	if err != nil {
		return err
	}
	defer cleanup()

	var sessionOpts []schoolfinder.SessionOption
	if nearMe {
		device := core.Coordinate{Lat: c.Float64("lat"), Lng: c.Float64("lng")}
		sessionOpts = append(sessionOpts, schoolfinder.WithLocator(schoolfinder.StaticLocator(device)))
	}
	s, err := f.NewSession(sessionOpts...)
	if err != nil {
		return err
	}
	defer s.Close()

	if _, err := s.SelectSource(ctx, c.String("source")); err != nil {
		return fmt.Errorf("failed to load directory: %w", err)
	}
	if _, err := s.SetRadius(c.Int("radius")); err != nil {
		return err
	}
	if nearMe {
		if _, err := s.NearMe(ctx); err != nil {
			return err
		}
	}

	state := s.SetQuery(query)
	if c.Bool("commit") && strings.TrimSpace(query) != "" {
		state, err = s.Commit(ctx)
		if err != nil {
			return err
		}
	}

	renderState(c.App.Writer, state, c.Int("limit"))
	return nil
}

func suggestCommand(c *cli.Context) error {
	ctx := context.Background()
	text := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("suggestion text is required")
	}

	f, cleanup, err := openFinder(c)
	if err != nil {
		return err
	}
	defer cleanup()

	dir, err := f.Directory(ctx, c.String("source"))
	if err != nil {
		return fmt.Errorf("failed to load directory: %w", err)
	}

	suggestions := f.Engine().Suggest(ctx, text, dir, f.Geocoder())
	renderSuggestions(c.App.Writer, suggestions)
	return nil
}

func profileCommand(c *cli.Context) error {
	ctx := context.Background()

	f, cleanup, err := openFinder(c)
	if err != nil {
		return err
	}
	defer cleanup()

	inst, err := f.Institution(ctx, c.String("source"), core.FlexibleID(c.String("id")))
	if err != nil {
		return fmt.Errorf("failed to find institution %q: %w", c.String("id"), err)
	}
	renderProfile(c.App.Writer, inst)
	return nil
}

func preloadCommand(c *cli.Context) error {
	ctx := context.Background()

	f, cleanup, err := openFinder(c)
	if err != nil {
		return err
	}
	defer cleanup()

	failures, err := f.Preload(ctx,
		directory.WithPoolSize(c.Int("workers")),
		directory.WithProgress(c.App.ErrWriter),
	)
	if err != nil {
		return err
	}

	for _, src := range f.Sources() {
		if ferr, ok := failures[src.ID]; ok {
			fmt.Fprintf(c.App.Writer, "%s\tfailed: %v\n", src.ID, ferr)
			continue
		}
		dir, err := f.Directory(ctx, src.ID)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.App.Writer, "%s\t%d institutions\n", src.ID, len(dir))
	}
	if len(failures) == len(f.Sources()) && len(failures) > 0 {
		return fmt.Errorf("no data source could be loaded")
	}
	return nil
}

const interactiveHelp = `Type a query and press enter to search.
Commands:
  :radius N        set the radius (0, 10, 25, 50, 100)
  :near LAT LNG    search around a device location
  :source ID       switch data source
  :suggest TEXT    show suggestions for TEXT
  :pick N          use suggestion N
  :open ID         show a profile
  :reset           clear everything
  :quit            exit`

func interactiveCommand(c *cli.Context) error {
	ctx := context.Background()
	w := c.App.Writer

	f, cleanup, err := openFinder(c)
	if err != nil {
		return err
	}
	defer cleanup()

	var device core.Coordinate
	locator := schoolfinder.LocatorFunc(func(ctx context.Context) (core.Coordinate, error) {
		return device, ctx.Err()
	})
	delivered := make(chan []core.Suggestion, 1)
	s, err := f.NewSession(
		schoolfinder.WithLocator(locator),
		schoolfinder.WithSuggestionHandler(func(list []core.Suggestion) {
			select {
			case delivered <- list:
			default:
			}
		}),
	)
	if err != nil {
		return err
	}
	defer s.Close()

	// a failed load is reported in the status; the user can switch sources
	state, _ := s.SelectSource(ctx, c.String("source"))
	fmt.Fprintln(w, state.Status)
	fmt.Fprintln(w, interactiveHelp)

	scanner := bufio.NewScanner(c.App.Reader)
	for {
		fmt.Fprint(w, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		cmd, arg, _ := strings.Cut(line, " ")
		arg = strings.TrimSpace(arg)

		switch cmd {
		case "":
			renderState(w, s.State(), 20)
		case ":quit", ":q":
			return nil
		case ":help":
			fmt.Fprintln(w, interactiveHelp)
		case ":reset":
			renderState(w, s.Reset(), 20)
		case ":radius":
			miles, err := strconv.Atoi(arg)
			if err != nil {
				fmt.Fprintf(w, "invalid radius %q\n", arg)
				continue
			}
			st, err := s.SetRadius(miles)
			if err != nil {
				fmt.Fprintln(w, err)
				continue
			}
			renderState(w, st, 20)
		case ":near":
			coord, err := parseCoordinate(arg)
			if err != nil {
				fmt.Fprintln(w, err)
				continue
			}
			device = coord
			st, err := s.NearMe(ctx)
			if err != nil {
				fmt.Fprintln(w, "Unable to retrieve your location.", err)
				continue
			}
			renderState(w, st, 20)
		case ":source":
			st, err := s.SelectSource(ctx, arg)
			if err != nil && !errors.Is(err, schoolfinder.ErrSuperseded) {
				fmt.Fprintln(w, err)
			}
			fmt.Fprintln(w, st.Status)
		case ":suggest":
			s.SetQuery(arg)
			select {
			case list := <-delivered:
				renderSuggestions(w, list)
			case <-time.After(f.Engine().Policy().SuggestionDebounce + 10*time.Second):
				fmt.Fprintln(w, "no suggestions")
			}
		case ":pick":
			n, err := strconv.Atoi(arg)
			suggestions := s.Suggestions()
			if err != nil || n < 1 || n > len(suggestions) {
				fmt.Fprintf(w, "pick a number between 1 and %d\n", len(suggestions))
				continue
			}
			st, err := s.SelectSuggestion(ctx, suggestions[n-1])
			if err != nil {
				fmt.Fprintln(w, err)
				continue
			}
			if st.Selected != nil {
				renderProfile(w, st.Selected)
				continue
			}
			renderState(w, st, 20)
		case ":open":
			inst, err := f.Institution(ctx, s.State().Source.ID, core.FlexibleID(arg))
			if err != nil {
				fmt.Fprintln(w, err)
				continue
			}
			s.Select(inst)
			renderProfile(w, inst)
		default:
			s.SetQuery(line)
			st, err := s.Commit(ctx)
			if err != nil {
				fmt.Fprintln(w, err)
				continue
			}
			renderState(w, st, 20)
		}
	}
}

func parseCoordinate(s string) (core.Coordinate, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == ',' })
	if len(fields) != 2 {
		return core.Coordinate{}, fmt.Errorf("expected LAT LNG, got %q", s)
	}
	lat, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return core.Coordinate{}, fmt.Errorf("invalid latitude %q", fields[0])
	}
	lng, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return core.Coordinate{}, fmt.Errorf("invalid longitude %q", fields[1])
	}
	c := core.Coordinate{Lat: lat, Lng: lng}
	return c, core.ValidateCoordinate(c)
}

func renderState(w io.Writer, st schoolfinder.State, limit int) {
	switch {
	case st.Status != "":
		fmt.Fprintln(w, st.Status)
	case len(st.Results) == 0:
		fmt.Fprintln(w, "Enter a search term to begin.")
	}
	if st.Center != nil {
		fmt.Fprintf(w, "Center: %.4f, %.4f (%s)\n", st.Center.Lat, st.Center.Lng, st.CenterSource)
	}

	for i, inst := range st.Results {
		if limit > 0 && i == limit {
			fmt.Fprintf(w, "... %d more\n", len(st.Results)-limit)
			break
		}
		line := fmt.Sprintf("%2d. %s", i+1, inst.Name)
		if inst.Status != core.StatusRegular {
			line += " [" + inst.Status.String() + "]"
		}
		if inst.Distance != nil {
			line += fmt.Sprintf(" (%.1f mi)", *inst.Distance)
		}
		fmt.Fprintln(w, line)
		fmt.Fprintf(w, "    %s  id=%s\n", inst.Address, inst.ID)
	}
}

func renderSuggestions(w io.Writer, suggestions []core.Suggestion) {
	if len(suggestions) == 0 {
		fmt.Fprintln(w, "no suggestions")
		return
	}
	for i, s := range suggestions {
		fmt.Fprintf(w, "%d. [%s] %s", i+1, s.Kind, s.Label)
		if s.SubLabel != "" {
			fmt.Fprintf(w, " - %s", s.SubLabel)
		}
		fmt.Fprintln(w)
	}
}

func renderProfile(w io.Writer, inst *core.Institution) {
	fmt.Fprintf(w, "%s [%s]\n", inst.Name, inst.Status)
	fmt.Fprintln(w, inst.Address)
	if inst.Phone != nil {
		fmt.Fprintf(w, "Phone: %s (tel:%s)\n", *inst.Phone, inst.CleanPhone())
	}
	if inst.Website != nil {
		fmt.Fprintf(w, "Website: %s\n", *inst.Website)
	}
	if len(inst.Programs) > 0 {
		fmt.Fprintf(w, "Programs: %s\n", strings.Join(inst.Programs, ", "))
	}
	if inst.Schedule != "" {
		fmt.Fprintf(w, "Schedule: %s\n", inst.Schedule)
	}
	if inst.HoursRequired > 0 {
		fmt.Fprintf(w, "Hours required: %d\n", inst.HoursRequired)
	}
	if inst.Tuition != "" {
		fmt.Fprintf(w, "Tuition: %s\n", inst.Tuition)
	}
	if inst.ReviewCount > 0 {
		fmt.Fprintf(w, "Rating: %.1f (%d reviews)\n", inst.Rating, inst.ReviewCount)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, inst.About())
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Directions: %s\n", inst.DirectionsURL())
}
