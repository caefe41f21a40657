// SPDX-License-Identifier: EPL-2.0

package mp3_test

import (
	"fmt"
	"log"
	"os"

	"github.com/ik5/audmix/formats/mp3"
)

// Example decodes an MP3 file. go-mp3 always yields stereo.
func Example() {
	f, err := os.Open("music.mp3")
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	src, err := mp3.Decoder{}.Decode(f)
	if err != nil {
		log.Fatal(err)
	}
	defer src.Close()

	fmt.Printf("%d Hz, %d channels\n", src.SampleRate(), src.Channels())
}

// Example_sniff checks the first bytes of a stream for an ID3 tag or a
// frame sync.
func Example_sniff() {
	fmt.Println(mp3.Decoder{}.Sniff([]byte("ID3\x03\x00")))
	fmt.Println(mp3.Decoder{}.Sniff([]byte("RIFF")))
	// Output:
	// true
	// false
}
