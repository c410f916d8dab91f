package idgen

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextIDUniqueAcrossGoroutines(t *testing.T) {
	const workers, perWorker = 8, 500

	var mu sync.Mutex
	seen := make(map[int64]struct{}, workers*perWorker)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := make([]int64, 0, perWorker)
			for j := 0; j < perWorker; j++ {
				local = append(local, NextID())
			}
			mu.Lock()
			defer mu.Unlock()
			for _, id := range local {
				seen[id] = struct{}{}
			}
		}()
	}
	wg.Wait()

	require.Len(t, seen, workers*perWorker)
}

func TestGeneratedNumbersCarryPrefix(t *testing.T) {
	assert.True(t, strings.HasPrefix(GenerateDepositTransactionID(), "DEP"))
	assert.True(t, strings.HasPrefix(GenerateWithdrawalNo(), "SAQ"))
	assert.Len(t, GenerateEventKey(), len("EVT")+14+8)
}
