package rexile_test

import (
	"fmt"

	"github.com/coregx/rexile"
)

func ExampleCompile() {
	p, err := rexile.Compile(`\d+`)
	if err != nil {
		panic(err)
	}
	fmt.Println(p.FindString("Order #12345"))
	// Output: 12345
}

func ExamplePattern_FindAllIndex() {
	p := rexile.MustCompile(`\d+`)
	for _, loc := range p.FindAllIndex([]byte("a1 b22 c333"), -1) {
		fmt.Println(loc[0], loc[1])
	}
	// Output:
	// 1 2
	// 4 6
	// 8 11
}

func ExamplePattern_Captures() {
	p := rexile.MustCompile(`(\w+)=(\d+)`)
	caps := p.Captures([]byte("retries=3"))
	fmt.Println(caps.GetString(1), caps.GetString(2))
	// Output: retries 3
}

func ExamplePattern_FindIter() {
	p := rexile.MustCompile(`\w+`)
	it := p.FindIter([]byte("lazy iteration works"))
	for {
		start, end, ok := it.Next()
		if !ok {
			break
		}
		fmt.Println(start, end)
	}
	// Output:
	// 0 4
	// 5 14
	// 15 20
}

func ExampleIsMatch() {
	ok, _ := rexile.IsMatch(`^GET|^POST`, []byte("GET /index.html"))
	fmt.Println(ok)
	// Output: true
}
