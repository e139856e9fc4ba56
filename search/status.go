package search

import "fmt"

const (
	msgNoTextMatch   = "No schools match your search."
	msgNoneNearby    = "No schools found nearby."
	msgSearchFailure = "An error occurred during search."
)

func textStatus(n int) string {
	if n == 0 {
		return msgNoTextMatch
	}
	return ""
}

func keywordStatus(n int, query string) string {
	return fmt.Sprintf("Found %d schools matching \"%s\".", n, query)
}

func deviceStatus(n int, query string) string {
	switch {
	case query == "" && n == 0:
		return msgNoneNearby
	case query == "":
		return fmt.Sprintf("Found %d schools near your location.", n)
	case n == 0:
		return fmt.Sprintf("No schools match \"%s\" near your location.", query)
	default:
		return fmt.Sprintf("Found %d schools matching \"%s\" near your location.", n, query)
	}
}

func originStatus(n int, query string, radius int) string {
	switch {
	case query == "" && n == 0:
		return fmt.Sprintf("No schools found within %d miles of your last search.", radius)
	case query == "":
		return fmt.Sprintf("Found %d schools within %d miles of your last search.", n, radius)
	case n == 0:
		return fmt.Sprintf("No schools match \"%s\" within %d miles.", query, radius)
	default:
		return fmt.Sprintf("Found %d schools matching \"%s\" within %d miles.", n, query, radius)
	}
}

func clusterStatus(n int, query string, radius int) string {
	if n == 0 {
		return fmt.Sprintf("No schools found within %d miles of \"%s\".", radius, query)
	}
	return fmt.Sprintf("Found %d schools near \"%s\".", n, query)
}

func geocodedStatus(n int, query string, radius int) string {
	if n == 0 {
		return fmt.Sprintf("No schools found within %d miles of \"%s\".", radius, query)
	}
	return fmt.Sprintf("Found %d schools within %d miles of \"%s\".", n, radius, query)
}

func notFoundStatus(query string) string {
	return fmt.Sprintf("Could not determine location for \"%s\". Try a valid Zip or City.", query)
}
