// Command outfits loads the outfit deck from a backend (or the bundled
// catalog), applies a filter and prints the resulting cards.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"outfit-studio/internal/catalog"
	"outfit-studio/internal/home"
	"outfit-studio/internal/logging"
	"outfit-studio/internal/models"
	"outfit-studio/internal/session"
	"outfit-studio/internal/supabase"
)

// stringList collects a repeatable flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			*s = append(*s, part)
		}
	}
	return nil
}

func main() {
	var occasions stringList
	backend := flag.String("backend", "", "backend base URL serving /getAllOutfits (empty: bundled catalog only)")
	storageURL := flag.String("storage-url", "", "Supabase project URL used to resolve outfit image ids")
	bucket := flag.String("bucket", "outfit-images", "storage bucket of outfit images")
	query := flag.String("query", "", "search text")
	flag.Var(&occasions, "occasion", "occasion id (repeatable or comma-separated)")
	gender := flag.String("gender", "", "male or female")
	generated := flag.String("generated", "all", "all, generated or not_generated")
	profilePath := flag.String("profile", "", "cached profile JSON with createdImages")
	seed := flag.Uint64("seed", 0, "shuffle seed (0: random)")
	shuffles := flag.Int("shuffle", 0, "reshuffle the deck this many times before filtering")
	timeout := flag.Duration("timeout", 30*time.Second, "backend request timeout")
	asJSON := flag.Bool("json", false, "print cards as JSON")
	verbose := flag.Bool("verbose", false, "log to stderr")
	flag.Parse()

	logger := zap.NewNop()
	if *verbose {
		l, err := logging.New("development")
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
			os.Exit(1)
		}
		logger = l
	}
	defer logger.Sync()

	sess := session.Anonymous()
	if *profilePath != "" {
		profile, err := session.LoadProfile(*profilePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		sess = session.New(profile.ID, "", profile)
	}
	defer sess.Close()

	var opts []catalog.Option
	if *seed != 0 {
		opts = append(opts, catalog.WithRand(rand.New(rand.NewPCG(*seed, *seed))))
	}

	var source catalog.OutfitSource
	if *backend != "" {
		source = catalog.NewHTTPSource(*backend, *timeout)
	}
	var resolver catalog.ImageResolver
	if *storageURL != "" {
		base, b := *storageURL, *bucket
		resolver = catalog.ResolverFunc(func(fileID string) (string, error) {
			return supabase.ResolvePublicURL(base, b, fileID)
		})
	}

	controller := home.NewController(sess, catalog.NewLoader(source, resolver, logger, opts...), nil, logger)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout+5*time.Second)
	defer cancel()
	outcome := controller.Load(ctx)
	if outcome.Fallback != nil {
		fmt.Fprintf(os.Stderr, "using bundled catalog: %v\n", outcome.Fallback)
	}
	if outcome.Dropped > 0 {
		fmt.Fprintf(os.Stderr, "dropped %d outfits with unresolvable images\n", outcome.Dropped)
	}

	for i := 0; i < *shuffles; i++ {
		controller.Shuffle()
	}

	controller.ApplyFilter(models.FilterState{
		Query:           *query,
		Occasions:       occasions,
		Gender:          models.ParseGender(*gender),
		GeneratedStatus: models.ParseGeneratedStatus(*generated),
	})

	snapshot := controller.Snapshot()
	if *asJSON {
		if err := printJSON(os.Stdout, outcome, snapshot); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		return
	}
	printDeck(os.Stdout, outcome, snapshot)
}

func printDeck(w io.Writer, outcome home.LoadOutcome, snapshot home.Snapshot) {
	fmt.Fprintf(w, "source: %s, %d cards\n", outcome.Provenance, len(snapshot.Displayed))
	if snapshot.Empty {
		fmt.Fprintln(w, "no outfits match the filter")
		return
	}
	for i, card := range snapshot.Displayed {
		marker := " "
		if i == snapshot.ActiveIndex {
			marker = ">"
		}
		fmt.Fprintf(w, "%s %2d  %-28s %s\n", marker, i, card.Title, strings.Join(card.Keywords, ", "))
	}
}

func printJSON(w io.Writer, outcome home.LoadOutcome, snapshot home.Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(models.CatalogResponse{
		Cards:      snapshot.Displayed,
		Provenance: string(outcome.Provenance),
		Empty:      snapshot.Empty,
		Dropped:    outcome.Dropped,
	})
}
