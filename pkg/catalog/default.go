package catalog

// DefaultFeatureDim is the node feature width the pretrained House-GAN++
// generator was trained with (room classes 1..18, shifted to zero-based).
const DefaultFeatureDim = 18

// Canonical names of the built-in room types.
const (
	LivingRoom   = "living_room"
	Kitchen      = "kitchen"
	Bedroom      = "bedroom"
	Bathroom     = "bathroom"
	Balcony      = "balcony"
	Entrance     = "entrance"
	DiningRoom   = "dining_room"
	StudyRoom    = "study_room"
	Storage      = "storage"
	FrontDoor    = "front_door"
	Unknown      = "unknown"
	InteriorDoor = "interior_door"
)

// DefaultConfig returns the built-in room types. Ids are the generator's
// class ids minus one; colours and typical counts come from the dataset the
// model was trained on.
func DefaultConfig() Config {
	return Config{
		FeatureDim: DefaultFeatureDim,
		Rooms: []RoomType{
			{ID: 0, Name: LivingRoom, Aliases: []string{"living"}, Color: mustHex("#EE4D4D"), Typical: Range(1, 1)},
			{ID: 1, Name: Kitchen, Color: mustHex("#C67C7B"), Typical: Range(1, 1)},
			{ID: 2, Name: Bedroom, Color: mustHex("#FFD274"), Typical: Range(1, 3)},
			{ID: 3, Name: Bathroom, Color: mustHex("#BEBEBE"), Typical: Range(1, 1)},
			{ID: 4, Name: Balcony, Color: mustHex("#BFE3E8"), Typical: Range(0, 2)},
			{ID: 5, Name: Entrance, Color: mustHex("#7BA779"), Typical: Range(0, 1)},
			{ID: 6, Name: DiningRoom, Color: mustHex("#E87A90"), Typical: Range(0, 1)},
			{ID: 7, Name: StudyRoom, Color: mustHex("#FF8C69"), Typical: Range(0, 1)},
			{ID: 9, Name: Storage, Color: mustHex("#1F849B"), Typical: Range(0, 1)},
			{ID: 14, Name: FrontDoor, Color: mustHex("#727171")},
			{ID: 15, Name: Unknown, Color: mustHex("#785A67")},
			{ID: 16, Name: InteriorDoor, Color: mustHex("#D3A2C7")},
		},
	}
}

// Default returns a Catalog built from DefaultConfig.
func Default() *Catalog {
	return MustNew(DefaultConfig())
}
