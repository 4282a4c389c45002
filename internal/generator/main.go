package main

import (
	"fmt"
	"os"
	"os/exec"
	"slices"
	"strings"

	"github.com/consensys/bavard"
)

const copyrightHolder = "Consensys Software Inc."

// condition describes a condition code along with every suffix accepted for
// it.
type condition struct {
	Name     string
	Suffixes []string
}

// opcode describes a data processing opcode.
type opcode struct {
	Name string
}

// blockMode describes a block transfer addressing mode, along with the stack
// oriented aliases which select it for loads and for stores.
type blockMode struct {
	Name  string
	Load  []string
	Store []string
}

type tableConfig struct {
	Conditions []condition
	Opcodes    []opcode
	BlockModes []blockMode
}

//go:generate go run main.go
func main() {
	bgen := bavard.NewBatchGenerator(copyrightHolder, 2025, "go-armasm")
	//
	cfg := tableConfig{
		Conditions: []condition{
			{"EQ", []string{"EQ"}}, {"NE", []string{"NE"}},
			{"CS", []string{"CS", "HS"}}, {"CC", []string{"CC", "LO"}},
			{"MI", []string{"MI"}}, {"PL", []string{"PL"}},
			{"VS", []string{"VS"}}, {"VC", []string{"VC"}},
			{"HI", []string{"HI"}}, {"LS", []string{"LS"}},
			{"GE", []string{"GE"}}, {"LT", []string{"LT"}},
			{"GT", []string{"GT"}}, {"LE", []string{"LE"}},
			{"AL", []string{"AL"}},
		},
		Opcodes: []opcode{
			{"AND"}, {"EOR"}, {"SUB"}, {"RSB"}, {"ADD"}, {"ADC"}, {"SBC"}, {"RSC"},
			{"TST"}, {"TEQ"}, {"CMP"}, {"CMN"}, {"ORR"}, {"MOV"}, {"BIC"}, {"MVN"},
		},
		// For the same stack name, loads and stores select complementary modes
		// so that a push and a pop with that name pair up.
		BlockModes: []blockMode{
			{"DA", []string{"DA", "FA"}, []string{"DA", "ED"}},
			{"IA", []string{"IA", "FD"}, []string{"IA", "EA"}},
			{"DB", []string{"DB", "EA"}, []string{"DB", "FD"}},
			{"IB", []string{"IB", "ED"}, []string{"IB", "FA"}},
		},
	}
	//
	assertNoError(bgen.Generate(cfg, "isa", "templates",
		bavard.Entry{
			File:      "../../pkg/isa/tables_gen.go",
			Templates: []string{"tables.go.tmpl"},
		},
	), "for package \"isa\"")
	// run gofmt on generated file
	runCmd("gofmt", "-w", "../../pkg/isa/tables_gen.go")
}

func runCmd(name string, arg ...string) {
	fmt.Println(name, strings.Join(arg, " "))
	cmd := exec.Command(name, arg...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	assertNoError(cmd.Run(), "")
}

func assertNoError(err error, contextAndArgs ...any) {
	if err != nil {
		msg := err.Error()

		if len(contextAndArgs) > 0 {
			allArgs := append(slices.Clone(contextAndArgs[1:]), err)
			msg = fmt.Sprintf(contextAndArgs[0].(string)+": %v", allArgs...)
		}

		fmt.Println(msg)
		os.Exit(1)
	}
}
