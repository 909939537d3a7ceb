// Command answerkit compiles exam answers from a folder of student workbooks.
package main

import "github.com/klytics/answerkit/cmd"

func main() {
	cmd.Execute()
}
