package postgres

import (
	"testing"

	"sedeges/ms_hojas_ruta/internal/core/envio"
)

func TestRepositoryImplementsInterface(t *testing.T) {
	var _ envio.Repository = (*Repository)(nil)
}
