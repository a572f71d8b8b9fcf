/*
 * MIT License
 *
 * Copyright (c) 2026 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package worker

import (
	"os"
	"runtime"
	"strings"
)

// libSearchPathEnvVar names the OS-specific environment variable consulted
// when resolving a foreign-bitness shared library by name.
func libSearchPathEnvVar() string {
	switch runtime.GOOS {
	case "windows":
		return "PATH"
	case "darwin":
		return "DYLD_LIBRARY_PATH"
	default:
		return "LD_LIBRARY_PATH"
	}
}

// GroomEnvironment implements spec.md §4.D.5: before the user module is
// loaded, prepend envPath (plus HOST_CWD, if set, plus the current working
// directory) to the OS library search path, so a foreign-bitness library
// colocated with the worker or the invoking host process can be resolved.
//
// sysPath is accepted for symmetry with the worker CLI (spec.md §6
// --sys-path) and is handed to LibraryLoader unchanged: Go has no runtime
// import-path mechanism equivalent to the source system's sys.path, so
// there is nothing to mutate process-globally for it here.
func GroomEnvironment(sysPath, envPath []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	entries := make([]string, 0, len(envPath)+2)
	entries = append(entries, envPath...)

	if hostCwd := os.Getenv("HOST_CWD"); hostCwd != "" {
		entries = append(entries, hostCwd)
	}
	entries = append(entries, cwd)

	varName := libSearchPathEnvVar()
	if existing := os.Getenv(varName); existing != "" {
		entries = append(entries, existing)
	}

	return os.Setenv(varName, strings.Join(entries, string(os.PathListSeparator)))
}
