package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mythograph/backend/internal/util"
	"github.com/mythograph/backend/pkg/ai"
	"github.com/mythograph/backend/pkg/embed"
	"github.com/mythograph/backend/pkg/export"
	"github.com/mythograph/backend/pkg/graph"
	"github.com/mythograph/backend/pkg/leaselock"
	"github.com/mythograph/backend/pkg/logger"
	"github.com/mythograph/backend/pkg/source"
	"github.com/mythograph/backend/pkg/source/wikidata"
	"github.com/mythograph/backend/pkg/source/wikipedia"
	"github.com/mythograph/backend/pkg/store"
	graphstorage "github.com/mythograph/backend/pkg/store/pgx"

	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultCategoryLimit = 500

// Category tags carried by the nodes of each entity category.
const (
	TagFolklore  = "ATU_Folklore"
	TagArchetype = "Literary_Archetype"
	TagSciFi     = "SciFi_Theme"
	TagMechanic  = "Game_Mechanic"
)

type categoryBinding struct {
	name  string
	tag   string
	fetch source.FetchFunc
}

func allCategories(wd *wikidata.Client) []categoryBinding {
	return []categoryBinding{
		{name: "folklore", tag: TagFolklore, fetch: wd.FetchFolklore},
		{name: "literary_archetypes", tag: TagArchetype, fetch: wd.FetchLiteraryArchetypes},
		{name: "scifi_themes", tag: TagSciFi, fetch: wd.FetchSciFiThemes},
		{name: "game_mechanics", tag: TagMechanic, fetch: wd.FetchGameMechanics},
	}
}

// CategoryNames returns the names accepted in a build request's category list.
func CategoryNames() []string {
	names := make([]string, 0, 4)
	for _, b := range allCategories(nil) {
		names = append(names, b.name)
	}
	return names
}

func categorySpecs(wd *wikidata.Client, names []string, limit int) []graph.CategorySpec {
	bindings := allCategories(wd)

	if len(names) == 0 {
		specs := make([]graph.CategorySpec, 0, len(bindings))
		for _, b := range bindings {
			specs = append(specs, graph.CategorySpec{Fetch: b.fetch, Tag: b.tag, Limit: limit})
		}
		return specs
	}

	byName := make(map[string]categoryBinding, len(bindings))
	for _, b := range bindings {
		byName[b.name] = b
	}

	specs := make([]graph.CategorySpec, 0, len(names))
	for _, name := range names {
		b, ok := byName[name]
		if !ok {
			logger.Warn("[Queue] Unknown category in build request, skipping", "category", name)
			continue
		}
		specs = append(specs, graph.CategorySpec{Fetch: b.fetch, Tag: b.tag, Limit: limit})
	}
	return specs
}

// ProcessBuildMessage assembles a knowledge graph from the requested entity
// categories, embeds and validates it, persists it and uploads a JSON export.
// Collaborator failures shrink the graph; only infrastructure failures are
// returned to the caller for retry.
func ProcessBuildMessage(
	ctx context.Context,
	s3Client *awss3.Client,
	embedClient ai.EmbeddingClient,
	conn *pgxpool.Pool,
	msg string,
) (err error) {
	data := new(QueueBuildMsg)
	if err = json.Unmarshal([]byte(msg), data); err != nil {
		return err
	}
	if data.BuildID == "" || data.GraphID == "" {
		return fmt.Errorf("build message missing build_id or graph_id")
	}

	dbStore := graphstorage.NewGraphDBStoreWithConnection(conn)

	defer func() {
		if err == nil || errors.Is(err, leaselock.ErrBusy) {
			return
		}
		updateCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if updateErr := dbStore.SetBuildStatus(updateCtx, data.BuildID, store.BuildStatusFailed, err.Error()); updateErr != nil {
			logger.Warn("[Queue] Failed to mark build as failed", "build", data.BuildID, "err", updateErr)
		}
	}()

	leases := leaselock.New(conn)
	err = leases.WithLease(ctx, "graph:"+data.GraphID, leaselock.Options{
		TTL:         10 * time.Minute,
		TokenPrefix: "build_",
	}, func(ctx context.Context) error {
		return runBuild(ctx, s3Client, embedClient, dbStore, data)
	})
	if errors.Is(err, leaselock.ErrBusy) {
		logger.Warn("[Queue] Graph is locked by another build, requeueing", "graph", data.GraphID)
	}
	return err
}

func runBuild(
	ctx context.Context,
	s3Client *awss3.Client,
	embedClient ai.EmbeddingClient,
	dbStore *graphstorage.GraphDBStore,
	data *QueueBuildMsg,
) error {
	if err := dbStore.SetBuildStatus(ctx, data.BuildID, store.BuildStatusRunning, ""); err != nil {
		return fmt.Errorf("failed to mark build as running: %w", err)
	}

	userAgent := util.GetEnvString("HTTP_USER_AGENT", "")
	wd := wikidata.NewClient(wikidata.NewClientParams{
		Endpoint:  util.GetEnvString("WIKIDATA_SPARQL_URL", ""),
		UserAgent: userAgent,
	})
	wp := wikipedia.NewClient(wikipedia.NewClientParams{
		UserAgent: userAgent,
	})

	builder := graph.NewClient(graph.NewClientParams{
		Summaries:          wp,
		Relations:          wd,
		ParallelCategories: int(util.GetEnvNumeric("BUILD_PARALLEL_CATEGORIES", 2)),
		ParallelRelations:  int(util.GetEnvNumeric("BUILD_PARALLEL_RELATIONS", 2)),
	})

	limit := data.Limit
	if limit <= 0 {
		limit = int(util.GetEnvNumeric("BUILD_CATEGORY_LIMIT", defaultCategoryLimit))
	}

	specs := categorySpecs(wd, data.Categories, limit)
	if len(specs) == 0 {
		return fmt.Errorf("build request contains no known categories")
	}

	logger.Info(
		"[Queue] Building graph",
		"build", data.BuildID,
		"graph", data.GraphID,
		"categories", len(specs),
		"limit", limit,
	)

	g := builder.BuildMulti(ctx, specs)

	embedder, err := embed.NewNodeEmbedder(embed.NewNodeEmbedderParams{
		Client:    embedClient,
		MaxTokens: int(util.GetEnvNumeric("AI_EMBED_MAX_TOKENS", embed.DefaultMaxTokens())),
		Parallel:  int(util.GetEnvNumeric("AI_EMBED_PARALLEL", 4)),
	})
	if err != nil {
		return err
	}
	g = embedder.EmbedGraph(ctx, g)

	g = graph.NewValidator().Validate(g)

	if err = dbStore.SaveGraph(ctx, data.GraphID, data.Name, g); err != nil {
		return fmt.Errorf("failed to save graph: %w", err)
	}

	if s3Client != nil {
		exporter := export.NewExporter(export.NewExporterParams{S3: s3Client})
		res, exportErr := exporter.ExportJSON(ctx, data.GraphID, g)
		if exportErr != nil {
			logger.Error("[Queue] Failed to render export", "graph", data.GraphID, "err", exportErr)
		} else if _, upErr := exporter.Upload(ctx, data.GraphID, res); upErr != nil {
			logger.Error("[Queue] Failed to upload export", "graph", data.GraphID, "err", upErr)
		}
	}

	logger.Info(
		"[Queue] Graph built",
		"build", data.BuildID,
		"graph", data.GraphID,
		"nodes", len(g.Nodes),
		"edges", len(g.Edges),
	)

	return dbStore.SetBuildStatus(ctx, data.BuildID, store.BuildStatusDone, "")
}
