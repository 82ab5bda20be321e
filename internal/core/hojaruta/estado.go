package hojaruta

import (
	"errors"
	"fmt"
	"strings"
)

// Estado is the lifecycle state of a routing slip or of one of its sends.
type Estado string

const (
	EstadoPendiente  Estado = "pendiente"
	EstadoEnviada    Estado = "enviada"
	EstadoRecibida   Estado = "recibida"
	EstadoEnProceso  Estado = "en_proceso"
	EstadoRespondida Estado = "respondida"
	EstadoRedirigida Estado = "redirigida"
	EstadoFinalizada Estado = "finalizada"
	EstadoArchivada  Estado = "archivada"
)

// ErrEstadoInvalido is returned for labels outside both state vocabularies.
var ErrEstadoInvalido = errors.New("invalid estado")

// estadoAliases maps every label used by either vocabulary onto the canonical
// state. It is the only place where the two vocabularies meet.
var estadoAliases = map[string]Estado{
	"pendiente":  EstadoPendiente,
	"enviada":    EstadoEnviada,
	"enviado":    EstadoEnviada,
	"recibida":   EstadoRecibida,
	"recibido":   EstadoRecibida,
	"en_proceso": EstadoEnProceso,
	"en proceso": EstadoEnProceso,
	"respondida": EstadoRespondida,
	"respondido": EstadoRespondida,
	"redirigida": EstadoRedirigida,
	"redirigido": EstadoRedirigida,
	"finalizada": EstadoFinalizada,
	"finalizado": EstadoFinalizada,
	"completado": EstadoFinalizada,
	"completada": EstadoFinalizada,
	"archivada":  EstadoArchivada,
	"archivado":  EstadoArchivada,
}

// ParseEstado maps a label from either vocabulary onto the canonical state.
func ParseEstado(raw string) (Estado, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if estado, ok := estadoAliases[key]; ok {
		return estado, nil
	}
	return "", fmt.Errorf("%w: %q", ErrEstadoInvalido, raw)
}

// Valid reports whether e is one of the canonical states.
func (e Estado) Valid() bool {
	switch e {
	case EstadoPendiente, EstadoEnviada, EstadoRecibida, EstadoEnProceso,
		EstadoRespondida, EstadoRedirigida, EstadoFinalizada, EstadoArchivada:
		return true
	default:
		return false
	}
}

// Vista returns the label shown in list views, where closed slips are grouped
// as "completado".
func (e Estado) Vista() string {
	switch e {
	case EstadoFinalizada, EstadoArchivada:
		return "completado"
	default:
		return string(e)
	}
}

// Cerrada reports whether the state is terminal for routing purposes.
func (e Estado) Cerrada() bool {
	return e == EstadoFinalizada || e == EstadoArchivada
}

var transiciones = map[Estado][]Estado{
	EstadoPendiente:  {EstadoEnviada, EstadoEnProceso, EstadoFinalizada, EstadoArchivada},
	EstadoEnviada:    {EstadoRecibida, EstadoRedirigida, EstadoEnProceso, EstadoFinalizada},
	EstadoRecibida:   {EstadoEnProceso, EstadoRespondida, EstadoRedirigida, EstadoFinalizada},
	EstadoEnProceso:  {EstadoEnviada, EstadoRespondida, EstadoRedirigida, EstadoFinalizada, EstadoArchivada},
	EstadoRespondida: {EstadoEnviada, EstadoRedirigida, EstadoEnProceso, EstadoFinalizada, EstadoArchivada},
	EstadoRedirigida: {EstadoRecibida, EstadoRedirigida, EstadoEnProceso, EstadoFinalizada},
	EstadoFinalizada: {EstadoArchivada},
	EstadoArchivada:  {},
}

// CanTransition reports whether a slip may move from one state to another.
func CanTransition(from, to Estado) bool {
	for _, next := range transiciones[from] {
		if next == to {
			return true
		}
	}
	return false
}
