package geometry

// Unit constants for the geometry model.
// Dimensions are in mm, volumes in cm³, masses in mg, densities in g/cm³.
const (
	// LeadDensity is the canonical density of metallic lead.
	LeadDensity = 11.35 // g/cm³

	// ReferenceDiameterMM is the diameter of the T/Dp reference sphere.
	ReferenceDiameterMM = 1.0

	MM3PerCM3 = 1000.0 // mm³ per cm³
	MGPerG    = 1000.0 // mg per g
	MGPerKG   = 1e6    // mg per kg
	MMPerCM   = 10.0
)
