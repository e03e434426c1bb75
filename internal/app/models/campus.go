package models

// CampusLocation is a named point on the campus map.
type CampusLocation struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

// CampusCenter is where the campus map is centred.
var CampusCenter = CampusLocation{Name: "SRM AP", Lat: 15.7939, Lng: 80.0258}

// CampusLocations is the fixed catalogue a profile's campus location is chosen from.
var CampusLocations = []CampusLocation{
	{Name: "Main Academic Block", Lat: 15.7945, Lng: 80.0260},
	{Name: "Library", Lat: 15.7935, Lng: 80.0250},
	{Name: "Boys Hostel", Lat: 15.7955, Lng: 80.0270},
	{Name: "Girls Hostel", Lat: 15.7925, Lng: 80.0240},
	{Name: "Cafeteria", Lat: 15.7940, Lng: 80.0265},
	{Name: "Sports Complex", Lat: 15.7960, Lng: 80.0245},
	{Name: "Auditorium", Lat: 15.7930, Lng: 80.0255},
	{Name: "Computer Lab", Lat: 15.7948, Lng: 80.0252},
	{Name: "Admin Block", Lat: 15.7938, Lng: 80.0262},
	{Name: "Innovation Lab", Lat: 15.7942, Lng: 80.0248},
}

// FindCampusLocation looks a location up by its exact name.
func FindCampusLocation(name string) (CampusLocation, bool) {
	for _, l := range CampusLocations {
		if l.Name == name {
			return l, true
		}
	}
	return CampusLocation{}, false
}

// CampusPeer is a connected student placed on the campus map.
type CampusPeer struct {
	Profile  Profile        `json:"profile"`
	Location CampusLocation `json:"location"`
}
