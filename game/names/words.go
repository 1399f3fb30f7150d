package names

// Adjectives is the shared qualifier pool for command names.
var Adjectives = []string{
	"Crosstown", "Uptown", "Downtown", "Municipal", "Metro",
	"Harbor", "Riverside", "Elevated", "Rickety", "Gilded",
	"Rusty", "Emergency", "Auxiliary", "Historic", "Neon",
	"Foggy", "Midnight", "Crowded", "Official", "Borough",
}

// RoleNouns holds one themed noun pool per player role. Role 0 runs transit,
// role 1 utilities, role 2 parks, role 3 city services.
var RoleNouns = [][]string{
	{
		"Turnstile", "Signal", "Switchyard", "Farebox", "Platform",
		"Trolley", "Crossing", "Dispatcher", "Railcar", "Tollbooth",
		"Busline", "Timetable", "Junction", "Gangway", "Terminal",
		"Caboose",
	},
	{
		"Hydrant", "Breaker", "Manhole", "Valve", "Transformer",
		"Boiler", "Conduit", "Floodgate", "Generator", "Stopcock",
		"Gasline", "Substation", "Reservoir", "Fusebox", "Standpipe",
		"Watermain",
	},
	{
		"Carousel", "Bandstand", "Fountain", "Hedgerow", "Birdbath",
		"Gazebo", "Sprinkler", "Flowerbed", "Sandbox", "Duckpond",
		"Trellis", "Lamppost", "Greenhouse", "Swingset", "Dogrun",
		"Boathouse",
	},
	{
		"Permit", "Ledger", "Gavel", "Stamp", "Archive",
		"Intercom", "Ballot", "Registry", "Bullhorn", "Rolodex",
		"Mailroom", "Teletype", "Notary", "Docket", "Switchboard",
		"Paperweight",
	},
}

// ActionVerbs is the pool action-menu entries are drawn from.
var ActionVerbs = []string{
	"Push", "Pull", "Crank", "Inspect", "Approve",
	"Reject", "Polish", "Unclog", "Repaint", "File",
	"Salute", "Water", "Sweep", "Wind", "Stack",
	"Ring",
}
