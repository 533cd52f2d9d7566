package course

// Stub returns the fixed course-data payload served by the fetch endpoint.
// No page is retrieved; website echoes the requested URL.
func Stub(url string) Course {
	return Course{
		CourseName: "Scraped Course",
		City:       "Sampletown",
		State:      "MA",
		Website:    url,
		Tees: []Tee{
			{TeeName: "Blue", CourseRating: 71.2, SlopeRating: 129},
			{TeeName: "White", CourseRating: 69.1, SlopeRating: 124},
			{TeeName: "Red", CourseRating: 66.3, SlopeRating: 119},
		},
	}
}
