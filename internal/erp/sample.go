package erp

// SampleCatalog returns the fab-lab fixture used for development and demos.
// Each call returns a fresh catalog.
func SampleCatalog() *Catalog {
	return &Catalog{items: []Item{
		{
			ID:           "1",
			Name:         "Prusa MK4 3D Printer",
			Description:  "FDM 3D printer for rapid prototyping, 250x210x220mm build volume",
			Category:     "equipment",
			ListPrice:    799.0,
			QtyAvailable: 2,
			UomName:      "unit",
			Tags:         []string{"3d-printing", "prototyping", "fab-lab"},
		},
		{
			ID:           "2",
			Name:         "40W CO2 Laser Cutter",
			Description:  "40W CO2 laser for cutting and engraving wood, acrylic, and leather",
			Category:     "equipment",
			ListPrice:    1200.0,
			QtyAvailable: 1,
			UomName:      "unit",
			Tags:         []string{"laser-cutting", "fab-lab"},
		},
		{
			ID:           "3",
			Name:         "Arduino Mega 2560",
			Description:  "ATmega2560-based microcontroller board for electronics prototyping",
			Category:     "electronics",
			ListPrice:    45.0,
			QtyAvailable: 10,
			UomName:      "unit",
			Tags:         []string{"electronics", "microcontroller", "prototyping"},
		},
		{
			ID:           "4",
			Name:         "PLA Filament 1kg - White",
			Description:  "1.75mm PLA filament spool, 1kg, for FDM 3D printers",
			Category:     "consumable",
			ListPrice:    25.0,
			QtyAvailable: 8,
			UomName:      "kg",
			Tags:         []string{"3d-printing", "consumable"},
		},
	}}
}
