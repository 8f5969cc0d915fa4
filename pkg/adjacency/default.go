package adjacency

import "github.com/matzehuels/floorgen/pkg/catalog"

// DefaultConfig returns the curated rule set observed in real layouts.
func DefaultConfig() Config {
	return Config{
		Hub:     catalog.LivingRoom,
		Service: []string{catalog.Kitchen, catalog.Bathroom},
		Private: []string{catalog.Bedroom, catalog.StudyRoom},
		Rules: []Rule{
			// most frequent adjacencies in the training plans
			{catalog.LivingRoom, catalog.Bedroom, Adjacent},
			{catalog.LivingRoom, catalog.Kitchen, Adjacent},
			{catalog.LivingRoom, catalog.Bathroom, Adjacent},
			{catalog.LivingRoom, catalog.Balcony, Adjacent},
			{catalog.Bedroom, catalog.Balcony, Separate},
			{catalog.Kitchen, catalog.Balcony, Separate},
			{catalog.Bedroom, catalog.Bathroom, Separate},
			{catalog.Kitchen, catalog.Bathroom, Separate},
			{catalog.Bedroom, catalog.Bedroom, Separate},
			{catalog.Balcony, catalog.Balcony, Separate},

			{catalog.LivingRoom, catalog.DiningRoom, Adjacent},
			{catalog.Kitchen, catalog.DiningRoom, Adjacent},
			{catalog.LivingRoom, catalog.Entrance, Adjacent},
			{catalog.LivingRoom, catalog.StudyRoom, Adjacent},
			{catalog.Bedroom, catalog.StudyRoom, Separate},
			{catalog.Kitchen, catalog.Entrance, Separate},
			{catalog.Bathroom, catalog.Entrance, Separate},
			{catalog.Bathroom, catalog.DiningRoom, Separate},
		},
	}
}
