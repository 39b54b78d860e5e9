package identifier

// examples are the sample inputs offered to chat users
var examples = []string{
	"C E G",
	"D F# A C",
	"C Eb G Bb",
	"F A C D",
	"G Bb D F",
	"Db F Ab C",
	"C D G",
	"A C E G#",
	"E G# B D",
	"C Eb Gb A",
}

// Examples returns the sample inputs, each of which names a chord
func Examples() []string {
	return append([]string(nil), examples...)
}
