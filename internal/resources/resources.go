// Package resources holds the support resource directory. The directory is
// a fixed, process-wide list; only the click counters live in the store.
package resources

import "mindbloom-api/internal/model"

var directory = []model.Resource{
	{
		ID:          "1",
		Name:        "Campus Counseling Center",
		Category:    "On-Campus",
		Description: "Confidential counseling services for all registered students.",
		Services: []string{
			"Individual Therapy",
			"Group Therapy",
			"Stress Management Workshops",
			"24/7 Crisis Line",
		},
		Phone:   "123-456-7890",
		Email:   "counseling@university.edu",
		Website: "counseling.university.edu",
	},
	{
		ID:          "2",
		Name:        "National Suicide Prevention Lifeline",
		Category:    "National",
		Description: "Free and confidential support for people in distress, prevention and crisis resources for you or your loved ones.",
		Services: []string{
			"24/7 Call & Text Support",
			"Online Chat",
			"Resources for Veterans",
		},
		Phone:   "988",
		Website: "988lifeline.org",
	},
	{
		ID:          "3",
		Name:        "Youth Help Line",
		Category:    "National",
		Description: "The world's largest suicide prevention and crisis intervention organization for young people.",
		Services: []string{
			"24/7 Call, Text & Chat",
			"Online Community",
			"Advocacy Programs",
		},
		Phone:   "1-866-488-7386",
		Website: "thetrevorproject.org",
	},
	{
		ID:          "4",
		Name:        "Peer Support Network",
		Category:    "Peer Support",
		Description: "Connect with trained peer volunteers who can offer a listening ear and share their own experiences.",
		Services: []string{
			"One-on-one Peer Chat",
			"Support Groups",
			"Community Events",
		},
		Website: "/chat",
	},
}

// All returns the directory entries in display order.
func All() []model.Resource {
	out := make([]model.Resource, len(directory))
	copy(out, directory)
	return out
}

// ByID looks up one entry; ok is false for unknown ids.
func ByID(id string) (model.Resource, bool) {
	for _, r := range directory {
		if r.ID == id {
			return r, true
		}
	}
	return model.Resource{}, false
}
