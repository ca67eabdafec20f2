package teaser

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Landmark is a known London place. The table below keys each one by a
// lowercase match keyword; coordinates come with the record for front-ends
// that plot matched articles.
type Landmark struct {
	Name        string
	Lat         float64
	Lng         float64
	Description string
}

// londonLandmarks covers the places the article corpus keeps returning to.
// Matching order is controlled by landmarkKeywords, not by this map.
var londonLandmarks = map[string]Landmark{
	// Westminster area
	"royal aquarium":    {Name: "Royal Aquarium", Lat: 51.5007, Lng: -0.1268, Description: "Site of the Royal Aquarium, Westminster"},
	"westminster abbey": {Name: "Westminster Abbey", Lat: 51.4994, Lng: -0.1273, Description: "Westminster Abbey"},
	"westminster":       {Name: "Westminster", Lat: 51.4995, Lng: -0.1248, Description: "Westminster area"},
	"thorney island":    {Name: "Thorney Island", Lat: 51.4994, Lng: -0.1249, Description: "Ancient Thorney Island, now Westminster"},
	"parliament":        {Name: "Houses of Parliament", Lat: 51.4995, Lng: -0.1248, Description: "Palace of Westminster"},
	"whitehall":         {Name: "Whitehall", Lat: 51.5041, Lng: -0.1262, Description: "Whitehall government area"},
	"trafalgar square":  {Name: "Trafalgar Square", Lat: 51.5080, Lng: -0.1281, Description: "Trafalgar Square"},
	"st james":          {Name: "St James's", Lat: 51.5053, Lng: -0.1364, Description: "St James's area"},
	"pall mall":         {Name: "Pall Mall", Lat: 51.5069, Lng: -0.1327, Description: "Pall Mall"},
	"victoria":          {Name: "Victoria", Lat: 51.4965, Lng: -0.1447, Description: "Victoria area"},

	// City of London
	"city of london":  {Name: "City of London", Lat: 51.5155, Lng: -0.0922, Description: "The Square Mile"},
	"tower of london": {Name: "Tower of London", Lat: 51.5081, Lng: -0.0759, Description: "Tower of London"},
	"london bridge":   {Name: "London Bridge", Lat: 51.5079, Lng: -0.0877, Description: "London Bridge"},
	"fleet street":    {Name: "Fleet Street", Lat: 51.5138, Lng: -0.1088, Description: "Fleet Street, historic press district"},
	"blackfriars":     {Name: "Blackfriars", Lat: 51.5118, Lng: -0.1033, Description: "Blackfriars area"},
	"st paul":         {Name: "St Paul's Cathedral", Lat: 51.5138, Lng: -0.0984, Description: "St Paul's Cathedral"},
	"old bailey":      {Name: "Old Bailey", Lat: 51.5155, Lng: -0.1019, Description: "Central Criminal Court"},
	"cheapside":       {Name: "Cheapside", Lat: 51.5145, Lng: -0.0930, Description: "Historic Cheapside"},

	// South London
	"southwark":      {Name: "Southwark", Lat: 51.5034, Lng: -0.0946, Description: "Southwark"},
	"lambeth":        {Name: "Lambeth", Lat: 51.4907, Lng: -0.1167, Description: "Lambeth area"},
	"bankside":       {Name: "Bankside", Lat: 51.5065, Lng: -0.0955, Description: "Bankside, historic theatre district"},
	"vauxhall":       {Name: "Vauxhall", Lat: 51.4861, Lng: -0.1229, Description: "Vauxhall area"},
	"crystal palace": {Name: "Crystal Palace", Lat: 51.4225, Lng: -0.0750, Description: "Site of the Crystal Palace"},

	// East London
	"spitalfields": {Name: "Spitalfields", Lat: 51.5196, Lng: -0.0749, Description: "Spitalfields market area"},
	"whitechapel":  {Name: "Whitechapel", Lat: 51.5175, Lng: -0.0659, Description: "Whitechapel"},
	"shoreditch":   {Name: "Shoreditch", Lat: 51.5254, Lng: -0.0794, Description: "Shoreditch"},

	// West London
	"tyburn":         {Name: "Tyburn", Lat: 51.5127, Lng: -0.1599, Description: "Site of Tyburn gallows, near Marble Arch"},
	"mayfair":        {Name: "Mayfair", Lat: 51.5107, Lng: -0.1495, Description: "Mayfair"},
	"hyde park":      {Name: "Hyde Park", Lat: 51.5073, Lng: -0.1657, Description: "Hyde Park"},
	"chelsea":        {Name: "Chelsea", Lat: 51.4875, Lng: -0.1687, Description: "Chelsea"},
	"kensington":     {Name: "Kensington", Lat: 51.4988, Lng: -0.1749, Description: "Kensington"},
	"holborn":        {Name: "Holborn", Lat: 51.5177, Lng: -0.1195, Description: "Holborn"},
	"covent garden":  {Name: "Covent Garden", Lat: 51.5129, Lng: -0.1243, Description: "Covent Garden"},
	"somerset house": {Name: "Somerset House", Lat: 51.5108, Lng: -0.1170, Description: "Somerset House"},
	"strand":         {Name: "The Strand", Lat: 51.5108, Lng: -0.1170, Description: "The Strand"},

	// North London
	"islington":   {Name: "Islington", Lat: 51.5362, Lng: -0.1033, Description: "Islington"},
	"kings cross": {Name: "King's Cross", Lat: 51.5309, Lng: -0.1233, Description: "King's Cross area"},
	"st pancras":  {Name: "St Pancras", Lat: 51.5321, Lng: -0.1266, Description: "St Pancras"},
	"euston":      {Name: "Euston", Lat: 51.5282, Lng: -0.1337, Description: "Euston area"},

	// Rivers and features
	"fleet river": {Name: "Fleet River", Lat: 51.5126, Lng: -0.1044, Description: "Site of the buried Fleet River"},
	"walbrook":    {Name: "Walbrook", Lat: 51.5122, Lng: -0.0898, Description: "Site of the Roman Walbrook stream"},
	"thames":      {Name: "River Thames", Lat: 51.5074, Lng: -0.1078, Description: "River Thames at London"},
}

// landmarkKeywords orders matching from most to least specific so "westminster
// abbey" is tried before "westminster" and "fleet street" before "strand".
var landmarkKeywords = buildLandmarkKeywords()

func buildLandmarkKeywords() []string {
	keys := make([]string, 0, len(londonLandmarks))
	for kw := range londonLandmarks {
		keys = append(keys, kw)
	}
	// Longest first; lexicographic within a length to keep matching stable.
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}

// ExtractLocation finds the first known landmark mentioned in the title or
// content. The title is checked first since it names the subject.
func ExtractLocation(title, content string) (Landmark, bool) {
	titleLower := strings.ToLower(title)
	contentLower := strings.ToLower(content)

	for _, kw := range landmarkKeywords {
		if strings.Contains(titleLower, kw) {
			return londonLandmarks[kw], true
		}
	}
	for _, kw := range landmarkKeywords {
		if strings.Contains(contentLower, kw) {
			return londonLandmarks[kw], true
		}
	}
	return Landmark{}, false
}

var eraKeywords = []struct {
	keyword string
	era     string
}{
	{"victorian", "Victorian Era (1837-1901)"},
	{"georgian", "Georgian Era (1714-1830)"},
	{"elizabethan", "Elizabethan Era (1558-1603)"},
	{"medieval", "Medieval Period (500-1500)"},
	{"tudor", "Tudor Period (1485-1603)"},
	{"stuart", "Stuart Period (1603-1714)"},
	{"regency", "Regency Era (1811-1820)"},
	{"edwardian", "Edwardian Era (1901-1910)"},
	{"roman", "Roman Britain (43-410 AD)"},
}

var yearPattern = regexp.MustCompile(`\b(1[0-9]{3})\b`)

// ExtractEra labels the content with a historical era: an explicit era word
// wins, otherwise the average of the four-digit years mentioned is mapped to
// a period.
func ExtractEra(content string) (string, bool) {
	contentLower := strings.ToLower(content)
	for _, e := range eraKeywords {
		if strings.Contains(contentLower, e.keyword) {
			return e.era, true
		}
	}

	matches := yearPattern.FindAllString(content, -1)
	if len(matches) == 0 {
		return "", false
	}
	sum := 0
	for _, m := range matches {
		year, _ := strconv.Atoi(m)
		sum += year
	}
	avg := sum / len(matches)

	switch {
	case avg >= 1837 && avg <= 1901:
		return "Victorian Era (1837-1901)", true
	case avg >= 1714 && avg < 1837:
		return "Georgian Era (1714-1830)", true
	case avg > 1901 && avg <= 1910:
		return "Edwardian Era (1901-1910)", true
	case avg >= 1603 && avg < 1714:
		return "Stuart Period (1603-1714)", true
	case avg >= 1485 && avg < 1603:
		return "Tudor Period (1485-1603)", true
	case avg >= 500 && avg < 1485:
		return "Medieval Period (500-1500)", true
	}
	return "", false
}
