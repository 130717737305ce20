package grammar

// DefaultRules returns a small sample grammar for US street addresses.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:        "address",
			Priority:    10,
			Description: "number and street, optionally followed by city, state and zip",
			Pattern:     `^(?P<number>\d+)\s+(?P<street>[^,]+)(?:,\s+(?P<city>[^,]+))?(?:,\s+(?P<state>[A-Z]{2}))?(?:\s+(?P<zip>\d{5}))?$`,
		},
		{
			Name:        "address_unit",
			Priority:    20,
			Description: "number and street with a suite or apartment before the city",
			Pattern:     `^(?P<number>\d+)\s+(?P<street>[^,]+),\s+(?P<unit>(?:Suite|Ste|Apt|Unit)\s+\w+),\s+(?P<city>[^,]+),\s+(?P<state>[A-Z]{2})(?:\s+(?P<zip>\d{5}))?$`,
		},
		{
			Name:        "intersection",
			Priority:    30,
			Description: "two streets joined by '&', 'and' or 'at', then city and state",
			Pattern:     `^(?P<street1>.+?)\s+(?:&|and|at)\s+(?P<street2>[^,]+),\s+(?P<city>[^,]+),\s+(?P<state>[A-Z]{2})$`,
		},
	}
}

// SampleAddresses is the address corpus used by the benchmark.
var SampleAddresses = []string{
	"1005 Gravenstein Hwy 95472",
	"1005 Gravenstein Hwy, 95472",
	"1005 Gravenstein Hwy N, 95472",
	"1005 Gravenstein Highway North, 95472",
	"1005 N Gravenstein Highway, Sebastopol, CA",
	"1005 N Gravenstein Highway, Suite 500, Sebastopol, CA",
	"1005 N Gravenstein Hwy Suite 500 Sebastopol, CA",
	"1005 N Gravenstein Highway, Suite 500, Sebastopol, CA 95472",
	"1005 N Gravenstein Highway North, Suite 500, Sebastopol, CA 95472",
	"1005 N Gravenstein Highway N, Suite 500, Sebastopol, CA 95472",
	"1005 N Gravenstein Highway North, Sebastopol, CA 95472",
	"1005 N Gravenstein Highway N, Sebastopol, CA 95472",
	"1 First St, e San Jose CA",
	"123 Main St, Westminster, CO 80020",
	"1 Infinite Loop, Cupertino, CA 95014",
	"1600 Pennsylvania Ave NW, Washington, DC 20500",
	"1600 Pennsylvania Avenue NW, Washington, DC",
	"200 Broadway Av, San Francisco, CA",
	"200 Broadway st, San Francisco, CA",
	"200 Broadway Avenue, San Francisco, CA",
	"200 Broadway Street, San Francisco, CA",
	"200 Broadway Street San Francisco CA",
	"Grand Blvd & Lakeview Ave, Chicago, IL",
	"Grand Boulevard and Lakeview Avenue, Chicago, IL",
	"Grand Boulevard at Lakeview Avenue, Chicago, IL",
	"Grand Boulevard & Lakeview Avenue Chicago IL",
	"Grand Boulevard and Lakeview Avenue Chicago IL",
	"Grand Boulevard at Lakeview Avenue Chicago IL",
	"Grand Blvd & Lakeview Ave Chicago IL",
	"45 Lakeview Ave, Chicago, IL",
	"45 Lakeview Avenue, Chicago, IL",
	"45 Lakeview Avenue Chicago IL",
	"123 Main Street, New York, NY 10001",
}
