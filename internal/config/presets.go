package config

var Presets = map[string]*Config{
	"planck18": {
		Cosmology: CosmologyConfig{
			Omegam: 0.3153, Omegab: 0.0493, OmegaL: 0.6847,
			H0: 67.36, Tcmb: 2.7255, YHe: 0.2454, Neff: 3.046,
		},
		Tables: TablesConfig{NumThermo: DefaultNumThermo, RTol: DefaultRTol, ATol: DefaultATol, Order: DefaultOrder},
	},
	"planck18_mnu": {
		Cosmology: CosmologyConfig{
			Omegam: 0.3153, Omegab: 0.0493, OmegaL: 0.6847,
			H0: 67.36, Tcmb: 2.7255, YHe: 0.2454, Neff: 2.046,
			Nmnu: 1, Mnu: 0.06,
		},
		Tables: TablesConfig{NumThermo: DefaultNumThermo, RTol: DefaultRTol, ATol: DefaultATol, Order: DefaultOrder},
	},
	"wmap9": {
		Cosmology: CosmologyConfig{
			Omegam: 0.282, Omegab: 0.0463, OmegaL: 0.718,
			H0: 69.7, Tcmb: 2.725, YHe: 0.2485, Neff: 3.046,
		},
		Tables: TablesConfig{NumThermo: DefaultNumThermo, RTol: DefaultRTol, ATol: DefaultATol, Order: DefaultOrder},
	},
	"eds": {
		// Einstein-de Sitter: matter only, no dark energy.
		Cosmology: CosmologyConfig{
			Omegam: 1.0, Omegab: 0.05, OmegaL: 0.0,
			H0: 70.0, Tcmb: 2.725, YHe: 0.245, Neff: 3.046,
		},
		Tables: TablesConfig{NumThermo: DefaultNumThermo, RTol: DefaultRTol, ATol: DefaultATol, Order: DefaultOrder},
	},
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
