package reporting

// Stats is the dashboard summary.
type Stats struct {
	CitasHoy           int     `json:"citas_hoy"`
	EstudiosRealizados int     `json:"estudios_realizados"`
	IngresosHoy        float64 `json:"ingresos_hoy"`
	PacientesNuevos    int     `json:"pacientes_nuevos"`
}
