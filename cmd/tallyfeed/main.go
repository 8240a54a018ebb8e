// Command tallyfeed runs key strings through the calculator engine and
// prints the resulting display, for trying out or scripting the engine
// without booting the OS.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"tally/tallyos/calc"
)

func main() {
	var (
		inPath = flag.String("in", "", "Script file, one key string per line (default: the arguments).")
		trace  = flag.Bool("trace", false, "Print the state after every key instead of once per line.")
	)
	flag.Parse()

	lines, err := scriptLines(*inPath, flag.Args())
	if err != nil {
		fatalf("%v", err)
	}
	if len(lines) == 0 {
		fatalf("usage: tallyfeed [-trace] \"12+34=\" ...\n       tallyfeed -in script.txt")
	}

	st := calc.Initial()
	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	for _, line := range lines {
		fmt.Fprintf(out, "> %s\n", line)
		st, err = feedLine(out, st, line, *trace)
		if err != nil {
			out.Flush()
			fatalf("%v", err)
		}
		if !*trace {
			printState(out, st)
		}
	}
}

func fatalf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(2)
}

func scriptLines(path string, args []string) ([]string, error) {
	if path == "" {
		return args, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	return lines, sc.Err()
}

func feedLine(out *bufio.Writer, st calc.State, line string, trace bool) (calc.State, error) {
	if ev, ok := directive(line); ok {
		st = st.Apply(ev)
		if trace {
			printState(out, st)
		}
		return st, nil
	}
	for _, r := range line {
		if r == ' ' {
			continue
		}
		ev, ok := calc.EventForRune(r)
		if !ok {
			return st, fmt.Errorf("unknown key %q", r)
		}
		st = st.Apply(ev)
		if trace {
			printState(out, st)
		}
	}
	return st, nil
}

// directive maps the memory register commands, which have no
// single-rune key of their own.
func directive(line string) (calc.Event, bool) {
	switch strings.ToLower(line) {
	case ":mc":
		return calc.MemClear(), true
	case ":mr":
		return calc.MemRecall(), true
	case ":ms":
		return calc.MemStore(), true
	case ":m+":
		return calc.MemAdd(), true
	case ":m-":
		return calc.MemSub(), true
	}
	return calc.Event{}, false
}

func printState(out *bufio.Writer, s calc.State) {
	line := "  "
	if p := s.Pending(); p != "" {
		line += p + " "
	}
	line += s.Display()
	if s.HasMemory() {
		line += "  M"
	}
	fmt.Fprintln(out, line)
}
