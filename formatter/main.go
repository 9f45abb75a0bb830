package main

import (
	"io/ioutil"
	"log"
	"os"

	"git.solver4all.com/azaryc2s/twotsp"
)

func main() {
	if len(os.Args) < 2 {
		log.Printf("No arguments passed!")
		return
	}
	for _, fileName := range os.Args[1:] {
		if err := formatFile(fileName); err != nil {
			log.Printf("At %s: %s\n", fileName, err.Error())
		}
	}
}

// formatFile compacts the number arrays of a JSON document in place.
func formatFile(fileName string) error {
	fileContent, err := ioutil.ReadFile(fileName)
	if err != nil {
		return err
	}
	return ioutil.WriteFile(fileName, []byte(twotsp.SanitizeJsonArrayLineBreaks(string(fileContent))), 0644)
}
