package engine

import (
	"fmt"
	"math/rand"
	"sync"
	"testing"
)

// TestConcurrentRandomOperations drives N goroutines through random
// Add/Remove/Query calls over a small shared keyspace and, after they
// all join, checks that the tree is still a well-formed, strictly
// ordered BST with no locks outstanding (spec.md §8 property 7).
func TestConcurrentRandomOperations(t *testing.T) {
	const (
		goroutines   = 8
		opsPerWorker = 2000
		keyspace     = 25
	)

	tree := NewTree()
	keys := make([]string, keyspace)
	for i := range keys {
		keys[i] = fmt.Sprintf("key-%02d", i)
	}

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			r := rand.New(rand.NewSource(seed))
			for i := 0; i < opsPerWorker; i++ {
				k := keys[r.Intn(len(keys))]
				switch r.Intn(3) {
				case 0:
					if _, err := tree.Add(k, fmt.Sprintf("v%d", i)); err != nil {
						t.Errorf("Add(%s): %v", k, err)
					}
				case 1:
					if _, err := tree.Remove(k); err != nil {
						t.Errorf("Remove(%s): %v", k, err)
					}
				case 2:
					if _, _, err := tree.Query(k); err != nil {
						t.Errorf("Query(%s): %v", k, err)
					}
				}
			}
		}(int64(g) + 1)
	}
	wg.Wait()

	assertTreeUnlocked(t, tree.root)

	got := inorder(tree)
	for i := 1; i < len(got); i++ {
		if got[i-1] >= got[i] {
			t.Fatalf("inorder traversal not strictly increasing at %d: %v", i, got)
		}
	}
	seen := make(map[string]bool, len(got))
	for _, k := range got {
		if seen[k] {
			t.Fatalf("duplicate key %q in final tree", k)
		}
		seen[k] = true
	}
}

// TestConcurrentDisjointSubtreeProgress exercises spec.md §5's
// disjoint-subtree concurrency guarantee: once two keys fan out into
// different subtrees, operations on one must not block on the other.
func TestConcurrentDisjointSubtreeProgress(t *testing.T) {
	tree := NewTree()
	for _, k := range []string{"m", "b", "x", "a", "c", "n", "z"} {
		if _, err := tree.Add(k, "v"); err != nil {
			t.Fatal(err)
		}
	}

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			if _, err := tree.Add("aa", fmt.Sprintf("v%d", i)); err != nil {
				errs <- err
				return
			}
			if _, err := tree.Remove("aa"); err != nil {
				errs <- err
				return
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			if _, err := tree.Add("zz", fmt.Sprintf("v%d", i)); err != nil {
				errs <- err
				return
			}
			if _, err := tree.Remove("zz"); err != nil {
				errs <- err
				return
			}
		}
	}()
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}

	assertTreeUnlocked(t, tree.root)
}
