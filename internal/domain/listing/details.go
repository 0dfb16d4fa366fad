package listing

// Details is the typed view of a listing's category attributes.
type Details interface {
	Category() Category
	// GuestCapacity reports how many guests the listing can serve,
	// false when the category has no notion of capacity.
	GuestCapacity() (int, bool)
}

// VenueDetails holds venue attributes.
type VenueDetails struct {
	VenueType    string
	Capacity     int
	PricePerHead float64
	Amenities    []string
}

// Category implements Details.
func (VenueDetails) Category() Category { return Venue }

// GuestCapacity implements Details.
func (d VenueDetails) GuestCapacity() (int, bool) { return d.Capacity, true }

// CateringDetails holds caterer attributes.
type CateringDetails struct {
	CuisineType      []string
	MinGuests        int
	MaxGuests        int
	Starters         []string
	MainCourse       []string
	Desserts         []string
	PricePerPerson   float64
	PackagePrice     float64
	ServicesIncluded []string
}

// Category implements Details.
func (CateringDetails) Category() Category { return Catering }

// GuestCapacity implements Details.
func (d CateringDetails) GuestCapacity() (int, bool) { return d.MaxGuests, true }

// DecorDetails holds decorator attributes.
type DecorDetails struct {
	DecorStyle []string
	MinPrice   float64
	MaxPrice   float64
	EventTypes []string
	Includes   []string
}

// Category implements Details.
func (DecorDetails) Category() Category { return Decor }

// GuestCapacity implements Details.
func (DecorDetails) GuestCapacity() (int, bool) { return 0, false }

// PhotographerDetails holds photographer attributes.
type PhotographerDetails struct {
	Experience    float64
	Deliverables  []string
	PhotoServices []string
	Team          string
	VideoOptions  []string
	Price         float64
}

// Category implements Details.
func (PhotographerDetails) Category() Category { return Photographer }

// GuestCapacity implements Details.
func (PhotographerDetails) GuestCapacity() (int, bool) { return 0, false }

// DecodeDetails builds the typed variant for a known category.
// Returns nil for unknown categories.
func DecodeDetails(c Category, raw map[string]any) Details {
	switch c {
	case Venue:
		return VenueDetails{
			VenueType:    Text(raw["venueType"]),
			Capacity:     int(Number(raw["capacity"])),
			PricePerHead: Number(raw["pricePerHead"]),
			Amenities:    Strings(raw["amenities"]),
		}
	case Catering:
		return CateringDetails{
			CuisineType:      Strings(raw["cuisineType"]),
			MinGuests:        int(Number(raw["minGuests"])),
			MaxGuests:        int(Number(raw["maxGuests"])),
			Starters:         Strings(raw["starters"]),
			MainCourse:       Strings(raw["mainCourse"]),
			Desserts:         Strings(raw["desserts"]),
			PricePerPerson:   Number(raw["pricePerPerson"]),
			PackagePrice:     Number(raw["packagePrice"]),
			ServicesIncluded: Strings(raw["servicesIncluded"]),
		}
	case Decor:
		return DecorDetails{
			DecorStyle: Strings(raw["decorStyle"]),
			MinPrice:   Number(raw["minPrice"]),
			MaxPrice:   Number(raw["maxPrice"]),
			EventTypes: Strings(raw["eventTypes"]),
			Includes:   Strings(raw["includes"]),
		}
	case Photographer:
		return PhotographerDetails{
			Experience:    Number(raw["experience"]),
			Deliverables:  Strings(raw["deliverables"]),
			PhotoServices: Strings(raw["photoServices"]),
			Team:          Text(raw["team"]),
			VideoOptions:  Strings(raw["videoOptions"]),
			Price:         Number(raw["price"]),
		}
	default:
		return nil
	}
}
