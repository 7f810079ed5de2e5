package verifierrepo_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/commette/backend/oauth/verifierrepo"
)

func TestPutTake(t *testing.T) {
	repo := verifierrepo.NewInMemoryRepo()

	repo.Put("client-a", "verifier-1")
	verifier, ok := repo.Take("client-a")
	require.True(t, ok)
	require.Equal(t, "verifier-1", verifier)
}

func TestTakeConsumes(t *testing.T) {
	repo := verifierrepo.NewInMemoryRepo()

	repo.Put("client-a", "verifier-1")
	_, ok := repo.Take("client-a")
	require.True(t, ok)

	_, ok = repo.Take("client-a")
	require.False(t, ok, "verifier must be redeemable at most once")
}

func TestTakeMissing(t *testing.T) {
	repo := verifierrepo.NewInMemoryRepo()

	_, ok := repo.Take("never-seen")
	require.False(t, ok)
}

func TestPutOverwrites(t *testing.T) {
	repo := verifierrepo.NewInMemoryRepo()

	repo.Put("client-a", "stale")
	repo.Put("client-a", "fresh")

	verifier, ok := repo.Take("client-a")
	require.True(t, ok)
	require.Equal(t, "fresh", verifier)
}

func TestKeysAreIndependent(t *testing.T) {
	repo := verifierrepo.NewInMemoryRepo()

	repo.Put("client-a", "verifier-a")
	repo.Put("client-b", "verifier-b")

	verifier, ok := repo.Take("client-a")
	require.True(t, ok)
	require.Equal(t, "verifier-a", verifier)

	verifier, ok = repo.Take("client-b")
	require.True(t, ok)
	require.Equal(t, "verifier-b", verifier)
}

func TestConcurrentAccess(t *testing.T) {
	repo := verifierrepo.NewInMemoryRepo()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("client-%d", n)
			repo.Put(key, fmt.Sprintf("verifier-%d", n))
			verifier, ok := repo.Take(key)
			require.True(t, ok)
			require.Equal(t, fmt.Sprintf("verifier-%d", n), verifier)
		}(i)
	}
	wg.Wait()
}
