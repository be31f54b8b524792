// Command learning_tree loads a catalog seed and prints the learning tree or
// the one-level prerequisite projection of a target resource.
//
//	learning_tree -seed catalog.yaml -target stats-201
//	learning_tree -seed catalog.yaml -target "Regression Analysis" -grouped-by resources
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/yungbote/learnpath-backend/internal/data/db"
	"github.com/yungbote/learnpath-backend/internal/data/repos"
	catalogrepo "github.com/yungbote/learnpath-backend/internal/data/repos/catalog"
	types "github.com/yungbote/learnpath-backend/internal/domain"
	"github.com/yungbote/learnpath-backend/internal/modules/learning/prereq"
	"github.com/yungbote/learnpath-backend/internal/platform/envutil"
	"github.com/yungbote/learnpath-backend/internal/platform/logger"
	"github.com/yungbote/learnpath-backend/internal/services"
)

type options struct {
	seedPath    string
	target      string
	groupedBy   string
	html        bool
	includeSelf bool
}

func main() {
	var opts options
	flag.StringVar(&opts.seedPath, "seed", "", "catalog seed YAML file")
	flag.StringVar(&opts.target, "target", "", "seed key or exact title of the target resource")
	flag.StringVar(&opts.groupedBy, "grouped-by", "", "print the prerequisite projection instead of the tree (prerequisites|resources)")
	flag.BoolVar(&opts.html, "html", false, "render the tree as HTML")
	flag.BoolVar(&opts.includeSelf, "include-self", envutil.Bool("PREREQ_INCLUDE_SELF_MATCHES", false), "let a resource satisfy its own prerequisites")
	flag.Parse()

	if opts.seedPath == "" || opts.target == "" {
		flag.Usage()
		os.Exit(2)
	}

	log, err := logger.New(envutil.String("LOG_MODE", "quiet"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(context.Background(), log, opts, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "learning_tree: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, log *logger.Logger, opts options, out io.Writer) error {
	seed, err := catalogrepo.LoadSeedFile(opts.seedPath)
	if err != nil {
		return err
	}

	driver := envutil.String("DB_DRIVER", "sqlite")
	store, err := db.Open(log, driver, envutil.String("SQLITE_PATH", db.DefaultSQLitePath))
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	if err := store.AutoMigrateAll(); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	theDB := store.DB()

	resourceRepo := repos.NewResourceRepo(theDB, log)
	statementRepo := repos.NewLearningStatementRepo(theDB, log)
	engineStore := repos.NewEngineStore(resourceRepo, statementRepo)
	builder := prereq.NewBuilder(engineStore, prereq.NewResolver(engineStore, prereq.IncludeSelfMatches(opts.includeSelf)))
	catalog := services.NewCatalogService(theDB, log, resourceRepo, statementRepo, repos.NewContentProviderRepo(theDB, log), builder, nil, nil, 0)

	byKey, err := catalog.ImportSeed(ctx, seed)
	if err != nil {
		return err
	}
	target, err := resolveTarget(ctx, catalog, byKey, opts.target)
	if err != nil {
		return err
	}

	if opts.groupedBy != "" {
		proj, err := catalog.PrerequisiteResources(ctx, target.ID, opts.groupedBy)
		if err != nil {
			return err
		}
		printProjection(out, proj)
		return nil
	}

	tree, err := catalog.LearningTree(ctx, target.ID)
	if err != nil {
		return err
	}
	if len(tree.Forest) == 0 {
		fmt.Fprintf(out, "No prerequisites found for %s\n", target.Label())
		return nil
	}
	if opts.html {
		fmt.Fprintln(out, prereq.RenderHTML(tree.Forest))
		return nil
	}
	for _, line := range tree.Lines {
		fmt.Fprintln(out, line)
	}
	return nil
}

func resolveTarget(ctx context.Context, catalog services.CatalogService, byKey map[string]*types.Resource, target string) (*types.Resource, error) {
	if r, ok := byKey[strings.TrimSpace(target)]; ok {
		return r, nil
	}
	r, err := catalog.FindByTitle(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("target %q: %w", target, err)
	}
	return r, nil
}

func printProjection(out io.Writer, proj *services.Projection) {
	if proj.GroupedBy == prereq.GroupByResources {
		for _, g := range proj.ByResource {
			fmt.Fprintln(out, g.Resource.Label())
			for _, p := range g.Prerequisites {
				fmt.Fprintf(out, "    %s %s\n", p.Verb, p.Noun)
			}
		}
		return
	}
	for _, m := range proj.ByPrerequisite {
		fmt.Fprintf(out, "%s %s\n", m.Prerequisite.Verb, m.Prerequisite.Noun)
		if len(m.Resources) == 0 {
			fmt.Fprintln(out, "    (no matching resources)")
		}
		for _, r := range m.Resources {
			fmt.Fprintf(out, "    %s\n", r.Label())
		}
	}
}
