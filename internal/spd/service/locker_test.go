package service

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// 同一个池的持锁区互斥，计数器不会出现竞态丢失
func TestPoolLocker(t *testing.T) {
	t.Parallel()

	locker := NewPoolLocker()
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locker.lock("pool-a")
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, counter)

	locker.forget("pool-a")
	unlock := locker.lock("pool-a")
	unlock()
}
