package storage

import (
	"runtime"
	"time"
)

// Stats returns current memory and database statistics
func (e *Engine) Stats() map[string]interface{} {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	e.mu.RLock()
	defer e.mu.RUnlock()

	documents := 0
	for _, db := range e.databases {
		documents += db.Count()
	}

	return map[string]interface{}{
		"alloc_mb":       m.Alloc / 1024 / 1024,
		"sys_mb":         m.Sys / 1024 / 1024,
		"num_goroutines": runtime.NumGoroutine(),
		"databases":      len(e.databases),
		"documents":      documents,
	}
}

// StartBackgroundWorkers starts the background save worker when enabled
func (e *Engine) StartBackgroundWorkers() {
	if !e.backgroundSave {
		return
	}

	e.backgroundWg.Add(1)
	go func() {
		defer e.backgroundWg.Done()
		ticker := time.NewTicker(e.saveInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				e.saveDirtyDatabases()
			case <-e.stopChan:
				return
			}
		}
	}()
}

// StopBackgroundWorkers stops background workers
func (e *Engine) StopBackgroundWorkers() {
	e.stopOnce.Do(func() { close(e.stopChan) })
	e.backgroundWg.Wait()
}

// saveDirtyDatabases saves every database with unsaved writes
func (e *Engine) saveDirtyDatabases() {
	start := time.Now()

	e.mu.RLock()
	dbs := make([]*Database, 0, len(e.databases))
	for _, db := range e.databases {
		dbs = append(dbs, db)
	}
	e.mu.RUnlock()

	savedCount := 0
	errorCount := 0
	for _, db := range dbs {
		if !db.IsDirty() {
			continue
		}
		if err := db.Flush(); err != nil {
			e.logger.Errorw("Failed to save database", "name", db.name, "error", err)
			errorCount++
		} else {
			savedCount++
		}
	}

	if savedCount == 0 && errorCount == 0 {
		return
	}
	if errorCount > 0 {
		e.logger.Warnw("Background save completed with errors", "saved", savedCount, "errors", errorCount, "elapsed", time.Since(start))
	} else {
		e.logger.Infow("Background save completed", "saved", savedCount, "elapsed", time.Since(start))
	}
}
