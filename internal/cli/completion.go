package cli

import (
	"fmt"
	"io"
	"strings"
)

// completionFlag describes one flag for the completion generators. Values
// lists suggested arguments; File requests filename completion.
type completionFlag struct {
	Name   string
	Help   string
	Values []string
	Arg    bool
	File   bool
}

// completionFlags returns the flag table with the method list filled in.
func completionFlags(methods []string) []completionFlag {
	return []completionFlag{
		{Name: "h", Help: "Show help message"},
		{Name: "t", Help: "Height t on the critical line", Arg: true},
		{Name: "method", Help: "Method to use", Values: append(append([]string{}, methods...), "all")},
		{Name: "start", Help: "First height of the block", Arg: true},
		{Name: "length", Help: "Length of the block", Arg: true},
		{Name: "points", Help: "Number of block samples", Values: []string{"10", "100", "1000"}},
		{Name: "scan", Help: "Scan an interval for zeros"},
		{Name: "from", Help: "Lower bound of the scan", Arg: true},
		{Name: "to", Help: "Upper bound of the scan", Arg: true},
		{Name: "step", Help: "Sampling step of the scan", Values: []string{"0.01", "0.05", "0.1"}},
		{Name: "window", Help: "Samples per scan window", Values: []string{"64", "128", "256", "512"}},
		{Name: "workers", Help: "Concurrent scan workers", Arg: true},
		{Name: "refine-tol", Help: "Zero refinement tolerance", Values: []string{"1e-6", "1e-8", "1e-10"}},
		{Name: "tolerance", Help: "Maximum spread between methods", Values: []string{"0.01", "0.1", "0.5"}},
		{Name: "theta-table", Help: "Print the theta table"},
		{Name: "bernoulli", Help: "Print the first N Bernoulli numbers", Arg: true},
		{Name: "gram", Help: "Print the first N Gram points", Arg: true},
		{Name: "precision", Help: "Floating-point width in bits", Values: []string{"32", "64"}},
		{Name: "timeout", Help: "Maximum execution time", Values: []string{"30s", "1m", "5m", "30m"}},
		{Name: "json", Help: "Output in JSON format"},
		{Name: "server", Help: "Start HTTP server mode"},
		{Name: "port", Help: "Server port", Values: []string{"8080", "3000", "9000"}},
		{Name: "no-color", Help: "Disable colored output"},
		{Name: "o", Help: "Output CSV file", File: true},
		{Name: "output", Help: "Output CSV file", File: true},
		{Name: "q", Help: "Quiet mode for scripts"},
		{Name: "quiet", Help: "Quiet mode for scripts"},
		{Name: "interactive", Help: "Start interactive REPL mode"},
		{Name: "completion", Help: "Generate completion script", Values: []string{"bash", "zsh", "fish", "powershell"}},
		{Name: "calibrate", Help: "Run calibration mode"},
		{Name: "calibration-profile", Help: "Calibration profile file", File: true},
		{Name: "store", Help: "Zero catalog directory", File: true},
		{Name: "config", Help: "YAML configuration file", File: true},
		{Name: "log-level", Help: "Log level", Values: []string{"debug", "info", "warn", "error"}},
	}
}

// GenerateCompletion writes a completion script for shell ("bash", "zsh",
// "fish" or "powershell") listing methods as the -method values.
func GenerateCompletion(out io.Writer, shell string, methods []string) error {
	flags := completionFlags(methods)
	switch shell {
	case "bash":
		return generateBashCompletion(out, flags)
	case "zsh":
		return generateZshCompletion(out, flags)
	case "fish":
		return generateFishCompletion(out, flags)
	case "powershell", "ps":
		return generatePowerShellCompletion(out, flags)
	default:
		return fmt.Errorf("unsupported shell: %s (accepted values: bash, zsh, fish, powershell)", shell)
	}
}

func generateBashCompletion(out io.Writer, flags []completionFlag) error {
	var b strings.Builder
	b.WriteString("# Bash completion script for hardyz\n")
	b.WriteString("# Add this to your ~/.bashrc or ~/.bash_completion\n\n")
	b.WriteString("_hardyz_completions() {\n")
	b.WriteString("    local cur prev\n    COMPREPLY=()\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n\n")
	b.WriteString("    case \"${prev}\" in\n")
	for _, f := range flags {
		switch {
		case len(f.Values) > 0:
			fmt.Fprintf(&b, "        -%s)\n            COMPREPLY=( $(compgen -W \"%s\" -- \"${cur}\") )\n            return 0\n            ;;\n", f.Name, strings.Join(f.Values, " "))
		case f.File:
			fmt.Fprintf(&b, "        -%s)\n            COMPREPLY=( $(compgen -f -- \"${cur}\") )\n            return 0\n            ;;\n", f.Name)
		}
	}
	b.WriteString("    esac\n\n")
	names := make([]string, len(flags))
	for i, f := range flags {
		names[i] = "-" + f.Name
	}
	fmt.Fprintf(&b, "    if [[ \"${cur}\" == -* ]]; then\n        COMPREPLY=( $(compgen -W \"%s\" -- \"${cur}\") )\n    fi\n}\n\n", strings.Join(names, " "))
	b.WriteString("complete -F _hardyz_completions hardyz\n")
	_, err := io.WriteString(out, b.String())
	return err
}

func generateZshCompletion(out io.Writer, flags []completionFlag) error {
	var b strings.Builder
	b.WriteString("#compdef hardyz\n\n")
	b.WriteString("# Zsh completion script for hardyz\n# Place this file in $fpath as _hardyz\n\n")
	b.WriteString("_hardyz() {\n    _arguments -s \\\n")
	for i, f := range flags {
		arg := fmt.Sprintf("'-%s[%s]", f.Name, f.Help)
		switch {
		case len(f.Values) > 0:
			arg += fmt.Sprintf(":%s:(%s)", f.Name, strings.Join(f.Values, " "))
		case f.File:
			arg += ":file:_files"
		case f.Arg:
			arg += ":" + f.Name + ":"
		}
		arg += "'"
		if i < len(flags)-1 {
			arg += " \\"
		}
		fmt.Fprintf(&b, "        %s\n", arg)
	}
	b.WriteString("}\n\n_hardyz \"$@\"\n")
	_, err := io.WriteString(out, b.String())
	return err
}

func generateFishCompletion(out io.Writer, flags []completionFlag) error {
	var b strings.Builder
	b.WriteString("# Fish completion script for hardyz\n")
	b.WriteString("# Add this to ~/.config/fish/completions/hardyz.fish\n\n")
	b.WriteString("complete -c hardyz -f\n")
	for _, f := range flags {
		line := fmt.Sprintf("complete -c hardyz -o %s -d '%s'", f.Name, f.Help)
		switch {
		case len(f.Values) > 0:
			line += fmt.Sprintf(" -xa '%s'", strings.Join(f.Values, " "))
		case f.File:
			line += " -rF"
		case f.Arg:
			line += " -x"
		}
		b.WriteString(line + "\n")
	}
	_, err := io.WriteString(out, b.String())
	return err
}

func generatePowerShellCompletion(out io.Writer, flags []completionFlag) error {
	var b strings.Builder
	b.WriteString("# PowerShell completion script for hardyz\n# Add this to your $PROFILE\n\n")
	b.WriteString("Register-ArgumentCompleter -CommandName 'hardyz' -Native -ScriptBlock {\n")
	b.WriteString("    param($wordToComplete, $commandAst, $cursorPosition)\n\n")
	b.WriteString("    $options = @(\n")
	for _, f := range flags {
		fmt.Fprintf(&b, "        @{Name = '-%s'; Description = '%s' }\n", f.Name, f.Help)
	}
	b.WriteString("    )\n\n")
	b.WriteString("    $elements = $commandAst.CommandElements\n")
	b.WriteString("    $prevElement = if ($elements.Count -gt 2) { $elements[-2].ToString() } else { '' }\n\n")
	b.WriteString("    $values = switch ($prevElement) {\n")
	for _, f := range flags {
		if len(f.Values) == 0 {
			continue
		}
		quoted := make([]string, len(f.Values))
		for i, v := range f.Values {
			quoted[i] = "'" + v + "'"
		}
		fmt.Fprintf(&b, "        '-%s' { @(%s) }\n", f.Name, strings.Join(quoted, ", "))
	}
	b.WriteString("        default { $null }\n    }\n")
	b.WriteString("    if ($values) {\n")
	b.WriteString("        $values | Where-Object { $_ -like \"$wordToComplete*\" } | ForEach-Object {\n")
	b.WriteString("            [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)\n        }\n        return\n    }\n\n")
	b.WriteString("    $options | Where-Object { $_.Name -like \"$wordToComplete*\" } | ForEach-Object {\n")
	b.WriteString("        [System.Management.Automation.CompletionResult]::new($_.Name, $_.Name, 'ParameterName', $_.Description)\n    }\n}\n")
	_, err := io.WriteString(out, b.String())
	return err
}
