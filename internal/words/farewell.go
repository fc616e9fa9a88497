package words

import (
	"fmt"
	"hash/fnv"
)

var farewells = []string{
	"Farewell, %s",
	"Adios, %s",
	"R.I.P., %s",
	"We'll miss you, %s",
	"Oh no, not %s!",
	"%s bites the dust",
	"Gone but not forgotten, %s",
	"The end of %s as we know it",
	"Off into the sunset, %s",
	"%s, it's been real",
	"%s, your watch has ended",
	"%s has left the building",
}

// FarewellText returns the flavor text shown when a language is eliminated.
// The template is picked from a hash of the name so repeated renders of the
// same state show the same line.
func FarewellText(name string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	return fmt.Sprintf(farewells[h.Sum32()%uint32(len(farewells))], name)
}
