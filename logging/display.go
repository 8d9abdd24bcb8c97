package logging

import (
	"bufio"
	"errors"
	"fmt"
	"minic/common"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pterm/pterm"
)

var (
	SuccessColorFG = pterm.FgLightGreen
	SuccessStyleBG = pterm.NewStyle(pterm.BgLightGreen, pterm.FgBlack)
	WarnColorFG    = pterm.FgYellow
	WarnStyleBG    = pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	ErrorColorFG   = pterm.FgRed
	ErrorStyleBG   = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	InfoColorFG    = pterm.FgLightCyan
	InfoStyleBG    = pterm.NewStyle(pterm.BgLightCyan, pterm.FgBlack)
	TraceColorFG   = pterm.FgDarkGray
)

// PrintErrorMessage prints a standard Go error to the console
func PrintErrorMessage(tag string, err error) {
	ErrorStyleBG.Print(tag)
	ErrorColorFG.Println(" " + err.Error())
}

// PrintWarningMessage prints a warning message to the console
func PrintWarningMessage(tag, msg string) {
	WarnStyleBG.Print(tag)
	WarnColorFG.Println(" " + msg)
}

// PrintInfoMessage prints an informational message to the user
func PrintInfoMessage(tag, msg string) {
	InfoStyleBG.Print(tag)
	InfoColorFG.Println(" " + msg)
}

// -----------------------------------------------------------------------------

func (ce *ConfigError) display() {
	PrintErrorMessage(ce.Kind+" Error", errors.New(ce.Message))
}

func (bw *BuildWarning) display() {
	PrintWarningMessage(bw.Kind+" Warning", bw.Message)
}

func (se *StdError) display() {
	PrintErrorMessage(se.Kind+" Error", se.Err)
}

var compileMsgStrings = map[int]string{
	LMKToken:  "Token",
	LMKSyntax: "Syntax",
	LMKName:   "Name",
	LMKDef:    "Definition",
	LMKUsage:  "Usage",
}

func (cm *CompileMessage) display() {
	cm.displayBanner()
	fmt.Println(cm.Message)

	if cm.Position != nil && cm.Context != nil {
		cm.displayCodeSelection()
	}
}

// displayBanner displays the banner on top of all compilation messages
func (cm *CompileMessage) displayBanner() {
	fmt.Print("\n-- ")
	kindStr := compileMsgStrings[cm.Kind]
	if cm.isError() {
		kindStr += " Error"
		ErrorStyleBG.Print(kindStr)
	} else {
		kindStr += " Warning"
		WarnStyleBG.Print(kindStr)
	}

	fileName := "<source>"
	if cm.Context != nil {
		fileName = filepath.Base(cm.Context.FilePath)
	}

	bannerLen := pterm.GetTerminalWidth() / 2
	if bannerLen > 50 {
		bannerLen = 50
	}

	dashCount := bannerLen - len(fileName) - len(kindStr) - 1
	if dashCount < 2 {
		dashCount = 2
	}

	fmt.Print(" " + strings.Repeat("-", dashCount) + " ")
	InfoColorFG.Println(fileName)
}

// displayCodeSelection displays the offending line(s) of code with line
// numbers and underlines the selected columns.  Sources that don't live on
// disk (eg. standard input) are simply not displayed.
func (cm *CompileMessage) displayCodeSelection() {
	f, err := os.Open(cm.Context.FilePath)
	if err != nil {
		return
	}
	defer f.Close()

	pos := cm.Position
	lines := make([]string, 0, pos.EndLn-pos.StartLn+1)
	sc := bufio.NewScanner(f)
	for lineNumber := 1; sc.Scan() && lineNumber <= pos.EndLn; lineNumber++ {
		if lineNumber >= pos.StartLn {
			lines = append(lines, strings.ReplaceAll(sc.Text(), "\t", "    "))
		}
	}

	if len(lines) == 0 {
		return
	}

	// the common indentation of the selection is trimmed before printing
	trim := -1
	for _, line := range lines {
		indent := len(line) - len(strings.TrimLeft(line, " "))
		if trim == -1 || indent < trim {
			trim = indent
		}
	}

	gutterWidth := len(strconv.Itoa(pos.EndLn)) + 1
	gutterFmt := "%-" + strconv.Itoa(gutterWidth) + "v"

	fmt.Println()
	for i, line := range lines {
		InfoColorFG.Print(fmt.Sprintf(gutterFmt, i+pos.StartLn))
		fmt.Println("|  " + line[trim:])

		start, end := 0, len(line)-trim
		if i == 0 {
			start = pos.StartCol - trim
		}

		if i == len(lines)-1 {
			end = pos.EndCol - trim
		}

		if start < 0 {
			start = 0
		}

		if end <= start {
			end = start + 1
		}

		fmt.Print(strings.Repeat(" ", gutterWidth), "|  ", strings.Repeat(" ", start))
		ErrorColorFG.Println(strings.Repeat("^", end-start))
	}
	fmt.Println()
}

const fatalErrorPostlude = `
This is likely a bug in the compiler.
Please report it along with the source file that caused it.`

func displayFatalError(msg string) {
	fmt.Print("\n\n")
	ErrorStyleBG.Print("Fatal Error ")
	ErrorColorFG.Println(msg)
	InfoColorFG.Println(fatalErrorPostlude)
}

func displayTrace(msg string) {
	TraceColorFG.Println("  trace: " + msg)
}

// -----------------------------------------------------------------------------

// displayCompileHeader displays the compiler version and the module being
// compiled before starting compilation
func displayCompileHeader(moduleName, profileName string) {
	fmt.Print("minic ")
	InfoColorFG.Print("v" + common.MinicVersion)
	fmt.Print(" -- module: ")
	InfoColorFG.Print(moduleName)

	if profileName != "" {
		fmt.Print(" -- profile: ")
		InfoColorFG.Print(profileName)
	}

	fmt.Println()
}

// phaseSpinner stores the current phase spinner
var phaseSpinner *pterm.SpinnerPrinter
var currentPhase string
var phaseStartTime time.Time

const maxPhaseLength = len("Allocating")

func padPhase(phase string) string {
	if len(phase) >= maxPhaseLength {
		return phase + "  "
	}

	return phase + strings.Repeat(" ", maxPhaseLength-len(phase)+2)
}

// displayBeginPhase displays the beginning of a compilation phase
func displayBeginPhase(phase string) {
	currentPhase = phase
	phaseSpinner = pterm.DefaultSpinner.WithStyle(pterm.NewStyle(InfoColorFG))

	phaseSpinner.SuccessPrinter = &pterm.PrefixPrinter{
		MessageStyle: pterm.NewStyle(pterm.FgDefault),
		Prefix: pterm.Prefix{
			Style: SuccessStyleBG,
			Text:  "Done",
		},
	}

	phaseSpinner.FailPrinter = &pterm.PrefixPrinter{
		MessageStyle: pterm.NewStyle(pterm.FgDefault),
		Prefix: pterm.Prefix{
			Style: ErrorStyleBG,
			Text:  "Fail",
		},
	}

	phaseSpinner.Start(padPhase(phase) + "...")
	phaseStartTime = time.Now()
}

// displayEndPhase displays the end of a compilation phase
func displayEndPhase(success bool) {
	if phaseSpinner == nil {
		return
	}

	if success {
		phaseSpinner.Success(
			padPhase(currentPhase),
			fmt.Sprintf("(%.3fs)", time.Since(phaseStartTime).Seconds()),
		)
	} else {
		phaseSpinner.Fail(padPhase(currentPhase))
	}

	phaseSpinner = nil
}

// displayCompilationFinished displays a compilation finished message
func displayCompilationFinished(success bool, errorCount, warningCount int) {
	fmt.Print("\n")

	if success {
		SuccessColorFG.Print("All done! ")
	} else {
		ErrorColorFG.Print("Compilation failed. ")
	}

	fmt.Print("(")
	displayCount(errorCount, "error", ErrorColorFG)
	fmt.Print(", ")
	displayCount(warningCount, "warning", WarnColorFG)
	fmt.Println(")")
}

func displayCount(n int, noun string, color pterm.Color) {
	if n == 0 {
		SuccessColorFG.Print(0)
	} else {
		color.Print(n)
	}

	if n == 1 {
		fmt.Print(" " + noun)
	} else {
		fmt.Print(" " + noun + "s")
	}
}
