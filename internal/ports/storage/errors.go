package storage

import "errors"

// Errores que devuelven los adapters de persistencia (memory/postgres).
// Los servicios los traducen a sus propios sentinels con errors.Is.
var (
	ErrNotFound = errors.New("storage: not found")
	ErrConflict = errors.New("storage: conflict")
)
