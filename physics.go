package cloudslice

// Physics supplies the constants used to convert a regression slope
// (partial column per pressure) into a volume mixing ratio. The constants
// are passed explicitly rather than read from package globals so the
// conversion can be tested with alternate units.
type Physics struct {
	GravitationalAccel float64 // m/s²
	MolarMassAir       float64 // kg/mol, dry air
	Avogadro           float64 // molecules/mol
}

// DefaultPhysics returns the standard values for the conversion constants.
func DefaultPhysics() Physics {
	return Physics{
		GravitationalAccel: 9.80665,
		MolarMassAir:       28.9644e-3,
		Avogadro:           6.02214076e23,
	}
}

// densityToMixingRatio returns the factor k = g*M_air/N_A that converts a
// column-density slope (molecules m⁻² Pa⁻¹) into a mol/mol mixing ratio.
func (p Physics) densityToMixingRatio() float64 {
	return p.GravitationalAccel * p.MolarMassAir / p.Avogadro
}
