package store

import (
	"context"
	"database/sql"
	"encoding/json"
)

type seedCrop struct {
	id         int64
	name       string
	scientific string
	desc       string
	regions    []string
}

type seedDisease struct {
	id         int64
	cropID     int64
	name       string
	symptoms   string
	causes     string
	prevention string
	organic    string
	chemical   string
}

var seedCrops = []seedCrop{
	{1, "Rice", "Oryza sativa", "Staple cereal grown in flooded paddies.", []string{"South Asia", "Southeast Asia", "West Africa"}},
	{2, "Maize", "Zea mays", "Warm-season cereal, rainfed or irrigated.", []string{"East Africa", "Latin America", "South Asia"}},
	{3, "Tomato", "Solanum lycopersicum", "Widely grown fruiting vegetable.", []string{"Worldwide"}},
	{4, "Cassava", "Manihot esculenta", "Drought-tolerant root crop.", []string{"West Africa", "Central Africa", "South America"}},
	{5, "Wheat", "Triticum aestivum", "Cool-season cereal.", []string{"South Asia", "North Africa", "Europe"}},
}

var seedDiseases = []seedDisease{
	{10, 1, "Leaf Rust",
		"Orange-brown pustules on leaf blades; premature drying.",
		"Fungal spores spread by wind and rain splash.",
		"Use resistant varieties; avoid dense planting.",
		"Apply neem oil; Use compost tea",
		"Apply propiconazole spray; Rotate with triazole fungicide"},
	{11, 1, "Rice Blast",
		"Diamond-shaped lesions with gray centers on leaves and nodes.",
		"Magnaporthe oryzae, favored by high humidity and nitrogen excess.",
		"Balanced nitrogen; drain fields periodically.",
		"Spray fermented compost extract; Burn infected stubble",
		"Apply tricyclazole; Use carbendazim at tillering"},
	{12, 1, "Bacterial Leaf Blight",
		"Water-soaked streaks turning yellow-white along leaf margins.",
		"Xanthomonas oryzae entering through wounds and hydathodes.",
		"Use certified seed; avoid field-to-field water flow.",
		"", // treatments intentionally empty: exercises the generic fallback
		""},
	{20, 2, "Maize Streak",
		"Broken yellow streaks along leaf veins; stunted plants.",
		"Maize streak virus transmitted by leafhoppers.",
		"Early planting; control leafhopper vectors.",
		"Encourage natural predators; Remove infected plants early",
		"Apply imidacloprid seed treatment; Spray lambda-cyhalothrin for vectors"},
	{21, 2, "Gray Leaf Spot",
		"Rectangular gray-brown lesions running parallel to veins.",
		"Cercospora zeae-maydis surviving on crop residue.",
		"Rotate crops; plough in residue.",
		"Apply sulfur dust; Use compost tea drench",
		"Apply strobilurin fungicide; Alternate with triazole products"},
	{30, 3, "Early Blight",
		"Concentric dark rings on older leaves; yellowing halo.",
		"Alternaria solani, spread by rain splash from soil.",
		"Mulch soil; stake plants for airflow.",
		"Apply neem oil spray; Remove lower infected leaves",
		"Apply chlorothalonil; Use mancozeb every 7-10 days"},
	{31, 3, "Late Blight",
		"Water-soaked patches turning brown; white mold under leaves.",
		"Phytophthora infestans in cool wet weather.",
		"Avoid overhead irrigation; destroy volunteers.",
		"Spray copper soap weekly; Remove and bag infected vines",
		"Apply copper-based fungicide; Use cymoxanil plus mancozeb"},
	{40, 4, "Cassava Mosaic",
		"Mosaic mottling and leaf distortion; reduced root yield.",
		"Cassava mosaic virus spread by whiteflies and cuttings.",
		"Plant virus-free cuttings; rogue infected plants.",
		"Use yellow sticky traps; Plant tolerant varieties",
		"Apply imidacloprid for whitefly control; Treat cuttings before planting"},
	{50, 5, "Stem Rust",
		"Reddish-brown elongated pustules on stems and leaves.",
		"Puccinia graminis; spreads rapidly in warm moist weather.",
		"Grow resistant varieties; remove barberry hosts.",
		"Apply sulfur dust early; Use garlic extract spray",
		"Apply tebuconazole; Repeat triazole spray after 14 days"},
}

// Seed loads the crop/disease reference data into an empty embedded
// database. A non-empty crops table leaves everything untouched.
func Seed(ctx context.Context, db *sql.DB) error {
	var n int
	if err := db.QueryRowContext(ctx, `select count(*) from crops`).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, c := range seedCrops {
		regions, _ := json.Marshal(c.regions)
		if _, err := tx.ExecContext(ctx, `
insert into crops (id, name, scientific_name, description, common_in_regions)
values ($1,$2,$3,$4,$5)`,
			c.id, c.name, c.scientific, c.desc, string(regions)); err != nil {
			return err
		}
	}
	for _, d := range seedDiseases {
		if _, err := tx.ExecContext(ctx, `
insert into diseases (id, crop_id, name, symptoms, causes, prevention, organic_treatment, chemical_treatment)
values ($1,$2,$3,$4,$5,$6,$7,$8)`,
			d.id, d.cropID, d.name, d.symptoms, d.causes, d.prevention, d.organic, d.chemical); err != nil {
			return err
		}
	}
	return tx.Commit()
}
