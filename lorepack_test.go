package lorepack_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guildhall/lorepack"
	"github.com/guildhall/lorepack/pkg/catalog"
	"github.com/guildhall/lorepack/pkg/errors"
	"github.com/guildhall/lorepack/pkg/resolver"
)

// writePack lays down a small content pack and returns its directory.
func writePack(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		"anvil.md": "---\nkey: anvil\naliases: [smithy anvil]\n---\n" +
			"An anvil is required before a forge can take work orders.\n\n" +
			"![anvil](assets/anvil.png)",
		"waterskin.md": "---\nkey: waterskin\naliases: [flask]\n---\n" +
			"Fill it at a river before travelling.",
		"bed.md": "Dwarves sleep better in beds.",
	}
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return dir
}

func TestNewAutoLoads(t *testing.T) {
	lp, err := lorepack.New(lorepack.WithPackDir(writePack(t)))
	require.NoError(t, err)

	require.NotNil(t, lp.Catalog())
	assert.Equal(t, 3, lp.Catalog().Len())
}

func TestNewRequiresSources(t *testing.T) {
	_, err := lorepack.New()
	assert.Error(t, err)
}

func TestNewRejectsBadOptions(t *testing.T) {
	_, err := lorepack.New(
		lorepack.WithPackDir(t.TempDir()),
		lorepack.WithFuzzyThreshold(1.5),
	)
	assert.Error(t, err)
}

func TestLookup(t *testing.T) {
	lp, err := lorepack.New(lorepack.WithPackDir(writePack(t)))
	require.NoError(t, err)

	t.Run("exact hit carries blocks in order", func(t *testing.T) {
		res, err := lp.Lookup("Anvil")
		require.NoError(t, err)
		require.True(t, res.Found)
		assert.Equal(t, resolver.TierExact, res.Tier)
		assert.Equal(t, "anvil", res.Key)
		require.Len(t, res.Blocks, 2)
		assert.Equal(t, []string{"An anvil is required before a forge can take work orders."}, res.Texts)
		assert.Equal(t, []string{"assets/anvil.png"}, res.Images)
	})

	t.Run("alias hit", func(t *testing.T) {
		res, err := lp.Lookup("flask")
		require.NoError(t, err)
		require.True(t, res.Found)
		assert.Equal(t, resolver.TierAlias, res.Tier)
		assert.Equal(t, "waterskin", res.Key)
	})

	t.Run("fuzzy hit reports score", func(t *testing.T) {
		res, err := lp.Lookup("waterskn")
		require.NoError(t, err)
		require.True(t, res.Found)
		assert.Equal(t, resolver.TierFuzzy, res.Tier)
		assert.Greater(t, res.Score, 0.6)
	})

	t.Run("miss is not an error", func(t *testing.T) {
		res, err := lp.Lookup("xylophone")
		require.NoError(t, err)
		assert.False(t, res.Found)
	})
}

func TestLookupBeforeFirstLoad(t *testing.T) {
	lp, err := lorepack.New(
		lorepack.WithPackDir(writePack(t)),
		lorepack.WithAutoLoad(false),
	)
	require.NoError(t, err)

	_, err = lp.Lookup("anvil")
	assert.True(t, errors.IsNoCatalog(err))
	assert.Nil(t, lp.Catalog())
	assert.Nil(t, lp.Keys(""))

	_, loaded := lp.Entry("anvil")
	assert.False(t, loaded)

	report, err := lp.Reload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, report.Entries)

	res, err := lp.Lookup("anvil")
	require.NoError(t, err)
	assert.True(t, res.Found)
}

func TestKeys(t *testing.T) {
	lp, err := lorepack.New(lorepack.WithPackDir(writePack(t)))
	require.NoError(t, err)

	all := lp.Keys("")
	assert.Len(t, all, 3)

	water := lp.Keys("WATER")
	assert.Equal(t, []string{"waterskin"}, water)

	none := lp.Keys("zzz")
	assert.Empty(t, none)
}

func TestFlatMapOptions(t *testing.T) {
	dir := t.TempDir()
	textPath := filepath.Join(dir, "texts.yaml")
	aliasPath := filepath.Join(dir, "aliases.yaml")
	require.NoError(t, os.WriteFile(textPath, []byte("entries:\n  catapult: \"Hurls stones at sieges.\"\n"), 0o644))
	require.NoError(t, os.WriteFile(aliasPath, []byte("aliases:\n  siege engine: catapult\n"), 0o644))

	lp, err := lorepack.New(
		lorepack.WithTextFile(textPath),
		lorepack.WithAliasFile(aliasPath),
	)
	require.NoError(t, err)

	res, err := lp.Lookup("siege engine")
	require.NoError(t, err)
	require.True(t, res.Found)
	assert.Equal(t, resolver.TierAlias, res.Tier)
	assert.Equal(t, "catapult", res.Key)
}

func TestReloadFailureRetainsCatalog(t *testing.T) {
	dir := t.TempDir()
	pack := filepath.Join(dir, "packs")
	require.NoError(t, os.MkdirAll(pack, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(pack, "anvil.md"), []byte("Anvil body."), 0o644))

	lp, err := lorepack.New(lorepack.WithPackDir(pack))
	require.NoError(t, err)

	// Make every source unusable and reload: the old snapshot must survive.
	require.NoError(t, os.RemoveAll(pack))
	_, err = lp.Reload(context.Background())
	require.Error(t, err)

	res, err := lp.Lookup("anvil")
	require.NoError(t, err)
	assert.True(t, res.Found, "failed reload must not drop the previous catalog")
}

func TestReloadPicksUpChanges(t *testing.T) {
	dir := writePack(t)
	lp, err := lorepack.New(lorepack.WithPackDir(dir))
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "forge.md"),
		[]byte("---\nkey: forge\n---\nTurns bars into goods."), 0o644))

	report, err := lp.Reload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, report.Entries)

	res, err := lp.Lookup("forge")
	require.NoError(t, err)
	assert.True(t, res.Found)
}

func TestOnReloadHook(t *testing.T) {
	lp, err := lorepack.New(lorepack.WithPackDir(writePack(t)))
	require.NoError(t, err)

	var mu sync.Mutex
	var gotOld, gotNew *catalog.Catalog
	lp.OnReload(func(old, newCat *catalog.Catalog, report *catalog.Report) {
		mu.Lock()
		defer mu.Unlock()
		gotOld, gotNew = old, newCat
	})

	_, err = lp.Reload(context.Background())
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	require.NotNil(t, gotOld)
	require.NotNil(t, gotNew)
	assert.NotSame(t, gotOld, gotNew, "each reload publishes a fresh snapshot")
}

func TestConcurrentLookupsDuringReload(t *testing.T) {
	dir := writePack(t)
	lp, err := lorepack.New(lorepack.WithPackDir(dir))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var wg sync.WaitGroup
	fail := make(chan string, 1)

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ctx.Err() == nil {
				res, err := lp.Lookup("anvil")
				if err != nil || !res.Found {
					select {
					case fail <- "lookup missed during reload":
					default:
					}
					return
				}
				// A borrowed snapshot is internally consistent: the hit's
				// blocks always come from the same generation as the key.
				if len(res.Blocks) == 0 {
					select {
					case fail <- "entry with no blocks observed":
					default:
					}
					return
				}
			}
		}()
	}

	for i := 0; i < 20; i++ {
		_, err := lp.Reload(ctx)
		require.NoError(t, err)
	}
	cancel()
	wg.Wait()

	select {
	case msg := <-fail:
		t.Fatal(msg)
	default:
	}
}

func TestReloadCanceledContext(t *testing.T) {
	lp, err := lorepack.New(lorepack.WithPackDir(writePack(t)))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = lp.Reload(ctx)
	assert.Error(t, err)

	// The snapshot from the initial load is still there.
	res, err := lp.Lookup("anvil")
	require.NoError(t, err)
	assert.True(t, res.Found)
}
