package hojaruta

// Anotacion is the read-only reply attached to a section that a unit answered.
type Anotacion struct {
	Respuesta   string `json:"respuesta" yaml:"respuesta"`
	Accion      string `json:"accion,omitempty" yaml:"accion,omitempty"`
	Responsable string `json:"responsable,omitempty" yaml:"responsable,omitempty"`
}

// SeccionVista is a section as displayed, with any unit response applied.
type SeccionVista struct {
	Numero         int        `json:"numero" yaml:"numero"`
	FechaEnviado   string     `json:"fecha_enviado" yaml:"fecha_enviado"`
	FechaRecepcion string     `json:"fecha_recepcion" yaml:"fecha_recepcion"`
	Destino        string     `json:"destino" yaml:"destino"`
	Destinos       []string   `json:"destinos" yaml:"destinos"`
	Instrucciones  string     `json:"instrucciones" yaml:"instrucciones"`
	Anotacion      *Anotacion `json:"anotacion,omitempty" yaml:"anotacion,omitempty"`
}

// Overlay applies unit responses to sections by ordinal. The section at index
// idx takes the first response whose Seccion equals idx+1; non-empty fields of
// the response replace the section's, the rest fall back to the stored values.
func Overlay(secciones []Seccion, respuestas []RespuestaUnidad) []SeccionVista {
	vistas := make([]SeccionVista, len(secciones))
	for idx, s := range secciones {
		v := SeccionVista{
			Numero:         Numero(idx),
			FechaEnviado:   s.FechaEnviado,
			FechaRecepcion: s.FechaRecepcion,
			Destino:        s.Destino,
			Destinos:       s.Destinos,
			Instrucciones:  s.InstruccionesAdicionales,
		}

		if resp, ok := findRespuesta(respuestas, v.Numero); ok {
			v.FechaEnviado = orDefault(resp.FechaEnviado, v.FechaEnviado)
			v.FechaRecepcion = orDefault(resp.FechaRecepcion, v.FechaRecepcion)
			v.Destino = orDefault(resp.Destino, v.Destino)
			v.Instrucciones = orDefault(resp.Instrucciones, v.Instrucciones)
			v.Anotacion = &Anotacion{
				Respuesta:   resp.Respuesta,
				Accion:      resp.Accion,
				Responsable: resp.Responsable,
			}
		}

		vistas[idx] = v
	}
	return vistas
}

func findRespuesta(respuestas []RespuestaUnidad, numero int) (RespuestaUnidad, bool) {
	for _, r := range respuestas {
		if r.Seccion == numero {
			return r, true
		}
	}
	return RespuestaUnidad{}, false
}

func orDefault(v *string, fallback string) string {
	if v == nil || *v == "" {
		return fallback
	}
	return *v
}
