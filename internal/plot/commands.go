package plot

import "sort"

// commandSpec describes one log element. Each format letter is one
// attribute in order: i int, f float, s string, F space-separated floats.
type commandSpec struct {
	name   string
	format string
	attrs  []string
}

// commandTable must stay sorted by name; lookups are binary searches.
var commandTable = []commandSpec{
	{"clearws", "", nil},
	{"drawarrow", "ffff", []string{"x1", "y1", "x2", "y2"}},
	{"fillarea", "iFF", []string{"n", "x", "y"}},
	{"mathtex", "ffs", []string{"x", "y", "text"}},
	{"polyline", "iFF", []string{"n", "x", "y"}},
	{"polymarker", "iFF", []string{"n", "x", "y"}},
	{"setcharheight", "f", []string{"height"}},
	{"setfillcolorind", "i", []string{"color"}},
	{"setlinecolorind", "i", []string{"color"}},
	{"setlinetype", "i", []string{"type"}},
	{"setlinewidth", "f", []string{"width"}},
	{"setmarkercolorind", "i", []string{"color"}},
	{"setmarkersize", "f", []string{"size"}},
	{"setmarkertype", "i", []string{"type"}},
	{"settextcolorind", "i", []string{"color"}},
	{"textext", "ffs", []string{"x", "y", "text"}},
	{"updatews", "", nil},
}

func lookupCommand(name string) (commandSpec, bool) {
	i := sort.Search(len(commandTable), func(i int) bool {
		return commandTable[i].name >= name
	})
	if i < len(commandTable) && commandTable[i].name == name {
		return commandTable[i], true
	}
	return commandSpec{}, false
}

// CommandNames lists the supported log elements in sorted order.
func CommandNames() []string {
	names := make([]string, len(commandTable))
	for i, c := range commandTable {
		names[i] = c.name
	}
	return names
}
