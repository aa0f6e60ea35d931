// Command midiports lists the MIDI output ports the -port flag of the
// main binary can target, and optionally sends a test note to one.
package main

import (
	"fmt"
	"os"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

func main() {
	defer gomidi.CloseDriver()

	if len(os.Args) < 2 {
		listPorts()
		return
	}

	switch os.Args[1] {
	case "list":
		listPorts()
	case "test":
		if len(os.Args) < 3 {
			fmt.Println("usage: midiports test <port name>")
			os.Exit(1)
		}
		testNote(os.Args[2])
	default:
		fmt.Println("usage: midiports [list | test <port name>]")
		os.Exit(1)
	}
}

func listPorts() {
	// Port enumeration can hang when the system MIDI service is stuck,
	// so wait on it with a timeout.
	ch := make(chan []drivers.Out, 1)
	go func() {
		ch <- gomidi.GetOutPorts()
	}()

	select {
	case outs := <-ch:
		if len(outs) == 0 {
			fmt.Println("no MIDI output ports found")
			return
		}
		fmt.Println("MIDI output ports:")
		for i, p := range outs {
			fmt.Printf("  %d: %s\n", i, p.String())
		}
	case <-time.After(3 * time.Second):
		fmt.Println("timed out enumerating ports; the MIDI service may be hung")
	}
}

func testNote(portName string) {
	out, err := gomidi.FindOutPort(portName)
	if err != nil {
		fmt.Printf("port %q not found: %v\n", portName, err)
		os.Exit(1)
	}
	send, err := gomidi.SendTo(out)
	if err != nil {
		fmt.Printf("open port: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("sending middle C to %s\n", out.String())
	if err := send(gomidi.NoteOn(0, 60, 100)); err != nil {
		fmt.Printf("send: %v\n", err)
		os.Exit(1)
	}
	time.Sleep(500 * time.Millisecond)
	if err := send(gomidi.NoteOff(0, 60)); err != nil {
		fmt.Printf("send: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("done")
}
