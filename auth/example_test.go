package auth_test

import (
	"fmt"

	"github.com/adamwoolhether/scorpion/auth"
)

func ExampleDirectory_CanRead() {
	d := auth.New()
	d.AddUser("jeff", "test")
	d.Grant(auth.Write, "jeff", "/jeff")
	d.Grant(auth.Read, auth.Anonymous, "/index")

	fmt.Println(d.CanRead("jeff", "/jeff/notes"))
	fmt.Println(d.CanRead("jeff", "/index"))
	fmt.Println(d.CanRead(auth.Anonymous, "/jeff"))
	// Output:
	// true
	// true
	// false
}

func ExampleDirectory_FromHeader() {
	d := auth.New()
	d.AddUser("jeff", "test")

	user, err := d.FromHeader("Basic amVmZjp0ZXN0")
	fmt.Printf("%q %v\n", user, err)

	user, err = d.FromHeader("")
	fmt.Printf("%q %v\n", user, err)
	// Output:
	// "jeff" <nil>
	// "" <nil>
}
