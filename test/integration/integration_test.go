//go:build integration

package integration

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/hiermatch/internal/config"
	"github.com/agenthands/hiermatch/internal/core"
	"github.com/agenthands/hiermatch/internal/core/model"
	"github.com/agenthands/hiermatch/internal/core/summary"
	"github.com/agenthands/hiermatch/internal/driver"
)

func setup(t *testing.T) *core.Service {
	t.Helper()
	_ = godotenv.Load("../../.env")

	uri := os.Getenv("MEMGRAPH_URI")
	if uri == "" {
		t.Skip("Skipping integration test: MEMGRAPH_URI not set")
	}

	ctx := context.Background()
	d, err := driver.NewMemgraphDriver(ctx, uri, os.Getenv("MEMGRAPH_USER"), os.Getenv("MEMGRAPH_PASSWORD"))
	require.NoError(t, err)
	t.Cleanup(func() { d.Close(context.Background()) })
	require.NoError(t, d.BuildIndices(ctx))

	cfg, err := config.Load("../../config/config.toml")
	if err != nil {
		cfg = config.Default()
	}
	svc, err := core.NewService(d, cfg)
	require.NoError(t, err)
	return svc
}

func classForest(methods ...string) *model.Forest {
	f := model.NewForest()
	list := f.AddNode("Class", "java.util.List")
	cls := f.AddNode("Class", "Foo")
	f.SetAttr(cls, "visibility", "public")
	for _, m := range methods {
		id := f.AddNode("Method", m)
		f.AddChild(cls, id)
		f.AddReference(id, list)
	}
	f.AddResource("src/Foo.java", cls)
	f.AddResource("lib/List.java", list)
	return f
}

func TestSnapshotRoundTrip(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()
	name := "it-" + uuid.New().String()

	saved := classForest("run", "stop")
	require.NoError(t, svc.SaveSnapshot(ctx, name, saved))

	loaded, err := svc.LoadSnapshot(ctx, name)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(saved, loaded))

	// Saving again replaces the snapshot instead of appending to it.
	require.NoError(t, svc.SaveSnapshot(ctx, name, classForest("run")))
	loaded, err = svc.LoadSnapshot(ctx, name)
	require.NoError(t, err)
	assert.Len(t, loaded.Nodes, 3)

	snapshots, err := svc.ListSnapshots(ctx)
	require.NoError(t, err)
	assert.Contains(t, snapshots, core.SnapshotInfo{Name: name, NodeCount: 3})
}

func TestCompareSnapshots(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()
	prefix := fmt.Sprintf("it-%s-", uuid.New().String())

	require.NoError(t, svc.SaveSnapshot(ctx, prefix+"v1", classForest("run", "stop")))
	require.NoError(t, svc.SaveSnapshot(ctx, prefix+"v2", classForest("run", "close", "stop")))

	c, err := svc.CompareSnapshots(ctx, prefix+"v1", prefix+"v2")
	require.NoError(t, err)

	sum := summary.Summarize(c)
	assert.Equal(t, 0, sum.LeftOnly)
	assert.Equal(t, 1, sum.RightOnly)
	assert.Equal(t, 4, sum.Matched)

	_, err = svc.LoadSnapshot(ctx, prefix+"missing")
	assert.ErrorIs(t, err, core.ErrSnapshotNotFound)
}
