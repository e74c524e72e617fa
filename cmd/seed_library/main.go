package main

import (
	"fmt"
	"log"

	"gorm.io/datatypes"
	"gorm.io/gorm/clause"

	"github.com/movetrack/movetrackgo/internal/config"
	"github.com/movetrack/movetrackgo/internal/database"
	"github.com/movetrack/movetrackgo/internal/models"
)

// entry is a compact row for the catalog table below
type entry struct {
	id          string
	name        string
	category    string
	roomTypes   []string
	cuFt        string
	weight      string
	specialty   bool
	disassembly bool
	fragile     bool
	keywords    string
}

func main() {
	fmt.Println("🌱 MoveTrack Item Library Seeder")
	fmt.Println()

	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer db.Close()

	fmt.Println("✅ Connected to database")

	// Run migrations first
	fmt.Println("🔨 Running database migrations...")
	if err := db.AutoMigrate(&models.ItemLibraryEntry{}); err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}
	fmt.Println("✅ Migrations complete")
	fmt.Println()

	entries := catalog()
	fmt.Printf("📦 Upserting %d library entries...\n", len(entries))

	for i, e := range entries {
		row := models.ItemLibraryEntry{
			ID:                  e.id,
			Name:                e.name,
			Category:            e.category,
			RoomTypes:           datatypes.NewJSONSlice(e.roomTypes),
			CuFt:                e.cuFt,
			Weight:              e.weight,
			IsSpecialtyItem:     e.specialty,
			RequiresDisassembly: e.disassembly,
			IsFragile:           e.fragile,
			SortOrder:           i,
			IsActive:            true,
		}
		if e.keywords != "" {
			kw := e.keywords
			row.SearchKeywords = &kw
		}

		// Idempotent: re-running refreshes existing rows in place
		result := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).Create(&row)
		if result.Error != nil {
			log.Fatalf("❌ Failed to upsert %s: %v", e.id, result.Error)
		}
	}

	fmt.Println("✅ Item library seeded successfully")
}

// catalog returns the standard household moving catalog. Volumes and weights
// follow common moving-industry tariff tables.
func catalog() []entry {
	return []entry{
		// Living room
		{"sofa-3-seat", "Sofa (3-Seat)", "Furniture", []string{"living_room", "basement"}, "50.00", "250.00", false, false, false, "couch, settee"},
		{"sofa-2-seat", "Loveseat", "Furniture", []string{"living_room", "basement"}, "35.00", "180.00", false, false, false, "couch, 2 seater"},
		{"sofa-sectional", "Sectional Sofa", "Furniture", []string{"living_room", "basement"}, "100.00", "400.00", false, true, false, "corner couch, l-shaped"},
		{"recliner", "Recliner", "Furniture", []string{"living_room", "bedroom", "basement"}, "25.00", "100.00", false, false, false, "armchair, lazy boy"},
		{"coffee-table", "Coffee Table", "Furniture", []string{"living_room"}, "10.00", "50.00", false, false, false, ""},
		{"end-table", "End Table", "Furniture", []string{"living_room", "bedroom"}, "5.00", "25.00", false, false, false, "side table, nightstand"},
		{"tv-flat-large", "TV (Over 50\")", "Electronics", []string{"living_room", "bedroom", "basement"}, "15.00", "60.00", false, false, true, "television, flat screen"},
		{"tv-flat-small", "TV (Under 50\")", "Electronics", []string{"living_room", "bedroom", "office"}, "8.00", "35.00", false, false, true, "television, flat screen"},
		{"tv-stand", "TV Stand", "Furniture", []string{"living_room", "bedroom"}, "15.00", "75.00", false, false, false, "media console, entertainment center"},
		{"bookshelf", "Bookshelf", "Furniture", []string{"living_room", "office", "bedroom"}, "20.00", "90.00", false, true, false, "bookcase, shelving"},
		{"piano-upright", "Piano (Upright)", "Specialty", []string{"living_room"}, "70.00", "600.00", true, false, true, "keyboard"},
		{"piano-grand", "Piano (Grand)", "Specialty", []string{"living_room"}, "100.00", "900.00", true, true, true, "baby grand"},
		{"rug-large", "Area Rug (Large)", "Decor", []string{"living_room", "dining_room", "bedroom"}, "6.00", "40.00", false, false, false, "carpet"},
		{"lamp-floor", "Floor Lamp", "Decor", []string{"living_room", "bedroom", "office"}, "3.00", "15.00", false, false, true, ""},

		// Bedrooms
		{"bed-king", "Bed (King)", "Furniture", []string{"master_bedroom", "bedroom"}, "70.00", "250.00", false, true, false, "mattress, frame"},
		{"bed-queen", "Bed (Queen)", "Furniture", []string{"master_bedroom", "bedroom"}, "60.00", "200.00", false, true, false, "mattress, frame"},
		{"bed-twin", "Bed (Twin)", "Furniture", []string{"bedroom"}, "40.00", "150.00", false, true, false, "mattress, single"},
		{"bed-bunk", "Bunk Bed", "Furniture", []string{"bedroom"}, "70.00", "250.00", false, true, false, "kids bed"},
		{"dresser", "Dresser", "Furniture", []string{"master_bedroom", "bedroom"}, "30.00", "150.00", false, false, false, "chest of drawers, bureau"},
		{"nightstand", "Nightstand", "Furniture", []string{"master_bedroom", "bedroom"}, "5.00", "30.00", false, false, false, "bedside table"},
		{"wardrobe", "Wardrobe", "Furniture", []string{"master_bedroom", "bedroom"}, "40.00", "200.00", false, true, false, "armoire, closet"},
		{"mirror-standing", "Standing Mirror", "Decor", []string{"master_bedroom", "bedroom", "bathroom"}, "5.00", "25.00", false, false, true, "full length mirror"},
		{"crib", "Crib", "Furniture", []string{"bedroom"}, "25.00", "60.00", false, true, false, "baby bed, cot"},

		// Kitchen / dining
		{"dining-table", "Dining Table", "Furniture", []string{"dining_room", "kitchen"}, "30.00", "150.00", false, true, false, "kitchen table"},
		{"dining-chair", "Dining Chair", "Furniture", []string{"dining_room", "kitchen"}, "5.00", "20.00", false, false, false, ""},
		{"china-cabinet", "China Cabinet", "Furniture", []string{"dining_room"}, "25.00", "150.00", false, false, true, "hutch, curio"},
		{"refrigerator", "Refrigerator", "Appliances", []string{"kitchen", "garage", "basement"}, "45.00", "300.00", true, false, false, "fridge, freezer"},
		{"stove", "Stove / Range", "Appliances", []string{"kitchen"}, "20.00", "180.00", true, false, false, "oven, cooker"},
		{"dishwasher", "Dishwasher", "Appliances", []string{"kitchen"}, "20.00", "125.00", true, false, false, ""},
		{"microwave", "Microwave", "Appliances", []string{"kitchen"}, "4.00", "30.00", false, false, true, ""},
		{"box-dish", "Dish Pack Box", "Boxes", []string{"kitchen", "dining_room"}, "6.00", "45.00", false, false, true, "china box, dishes"},

		// Office
		{"desk", "Desk", "Furniture", []string{"office", "bedroom"}, "25.00", "120.00", false, true, false, "computer desk, writing desk"},
		{"office-chair", "Office Chair", "Furniture", []string{"office"}, "10.00", "40.00", false, false, false, "desk chair"},
		{"filing-cabinet", "Filing Cabinet", "Furniture", []string{"office", "basement"}, "10.00", "75.00", false, false, false, "file drawer"},
		{"safe", "Safe", "Specialty", []string{"office", "master_bedroom", "basement"}, "5.00", "300.00", true, false, false, "gun safe, lockbox"},

		// Laundry / garage / outdoor
		{"washer", "Washing Machine", "Appliances", []string{"garage", "basement", "other"}, "25.00", "200.00", true, false, false, "laundry, washer"},
		{"dryer", "Dryer", "Appliances", []string{"garage", "basement", "other"}, "25.00", "150.00", true, false, false, "laundry"},
		{"treadmill", "Treadmill", "Exercise", []string{"garage", "basement", "bedroom"}, "35.00", "250.00", true, true, false, "running machine"},
		{"exercise-bike", "Exercise Bike", "Exercise", []string{"garage", "basement"}, "15.00", "100.00", false, false, false, "peloton, spin bike"},
		{"bicycle", "Bicycle", "Outdoor", []string{"garage", "outdoor", "storage"}, "10.00", "30.00", false, false, false, "bike"},
		{"grill", "BBQ Grill", "Outdoor", []string{"outdoor", "garage"}, "15.00", "100.00", false, false, false, "barbecue"},
		{"patio-table", "Patio Table", "Outdoor", []string{"outdoor"}, "20.00", "75.00", false, true, false, "garden table"},
		{"patio-chair", "Patio Chair", "Outdoor", []string{"outdoor"}, "8.00", "20.00", false, false, false, "garden chair"},
		{"lawn-mower", "Lawn Mower", "Outdoor", []string{"garage", "outdoor", "storage"}, "15.00", "80.00", false, false, false, "mower"},
		{"toolbox", "Toolbox", "Garage", []string{"garage", "basement", "storage"}, "5.00", "60.00", false, false, false, "tools, tool chest"},
		{"workbench", "Workbench", "Garage", []string{"garage", "basement"}, "20.00", "120.00", false, true, false, ""},

		// Boxes
		{"box-small", "Small Box", "Boxes", []string{"living_room", "master_bedroom", "bedroom", "kitchen", "dining_room", "bathroom", "garage", "office", "basement", "attic", "storage", "outdoor", "other"}, "1.50", "30.00", false, false, false, "book box, 1.5 cube"},
		{"box-medium", "Medium Box", "Boxes", []string{"living_room", "master_bedroom", "bedroom", "kitchen", "dining_room", "bathroom", "garage", "office", "basement", "attic", "storage", "outdoor", "other"}, "3.00", "35.00", false, false, false, "3.0 cube"},
		{"box-large", "Large Box", "Boxes", []string{"living_room", "master_bedroom", "bedroom", "kitchen", "dining_room", "bathroom", "garage", "office", "basement", "attic", "storage", "outdoor", "other"}, "4.50", "40.00", false, false, false, "4.5 cube"},
		{"box-wardrobe", "Wardrobe Box", "Boxes", []string{"master_bedroom", "bedroom", "other"}, "10.00", "50.00", false, false, false, "hanging clothes"},
		{"box-picture", "Picture / Mirror Box", "Boxes", []string{"living_room", "dining_room", "bedroom"}, "3.00", "20.00", false, false, true, "artwork, frame"},
	}
}
