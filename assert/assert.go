package assert

import "github.com/tasforge/tasforge/oterror"

func IsTrue(ok bool, message string, args ...interface{}) {
	if !ok {
		panic(oterror.New(message, args...))
	}
}
