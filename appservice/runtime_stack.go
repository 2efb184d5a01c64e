// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package appservice

import (
	"fmt"
	"strings"
)

// RuntimeStack is a Linux web app runtime such as NODE|20-lts.
type RuntimeStack struct {
	Stack   string
	Version string
}

// Predefined runtime stacks.
var (
	RuntimeStackDotNetCore60 = RuntimeStack{Stack: "DOTNETCORE", Version: "6.0"}
	RuntimeStackDotNetCore80 = RuntimeStack{Stack: "DOTNETCORE", Version: "8.0"}
	RuntimeStackNode18LTS    = RuntimeStack{Stack: "NODE", Version: "18-lts"}
	RuntimeStackNode20LTS    = RuntimeStack{Stack: "NODE", Version: "20-lts"}
	RuntimeStackPython311    = RuntimeStack{Stack: "PYTHON", Version: "3.11"}
	RuntimeStackPython312    = RuntimeStack{Stack: "PYTHON", Version: "3.12"}
	RuntimeStackPHP82        = RuntimeStack{Stack: "PHP", Version: "8.2"}
	RuntimeStackJava17       = RuntimeStack{Stack: "JAVA", Version: "17-java17"}
	RuntimeStackJava21       = RuntimeStack{Stack: "JAVA", Version: "21-java21"}
	RuntimeStackTomcat10     = RuntimeStack{Stack: "TOMCAT", Version: "10.0-java17"}
	RuntimeStackTomcat9      = RuntimeStack{Stack: "TOMCAT", Version: "9.0-java17"}
	RuntimeStackRuby27       = RuntimeStack{Stack: "RUBY", Version: "2.7"}
)

// RuntimeStacks returns the predefined runtime stacks.
func RuntimeStacks() []RuntimeStack {
	return []RuntimeStack{
		RuntimeStackDotNetCore60,
		RuntimeStackDotNetCore80,
		RuntimeStackNode18LTS,
		RuntimeStackNode20LTS,
		RuntimeStackPython311,
		RuntimeStackPython312,
		RuntimeStackPHP82,
		RuntimeStackJava17,
		RuntimeStackJava21,
		RuntimeStackTomcat10,
		RuntimeStackTomcat9,
		RuntimeStackRuby27,
	}
}

// LinuxFxVersion returns the site config value for the stack, STACK|version.
func (r RuntimeStack) LinuxFxVersion() string {
	return r.Stack + "|" + r.Version
}

// String implements fmt.Stringer.
func (r RuntimeStack) String() string {
	return r.LinuxFxVersion()
}

// IsZero reports whether r is the zero value.
func (r RuntimeStack) IsZero() bool {
	return r.Stack == "" && r.Version == ""
}

// ParseRuntimeStack parses a linuxFxVersion value. The stack is upper cased.
// Container based values such as DOCKER|nginx are accepted as well.
func ParseRuntimeStack(s string) (RuntimeStack, error) {
	stack, version, ok := strings.Cut(s, "|")
	if !ok || stack == "" || version == "" {
		return RuntimeStack{}, fmt.Errorf("appservice.ParseRuntimeStack: %q is not in STACK|version form", s)
	}

	return RuntimeStack{Stack: strings.ToUpper(stack), Version: version}, nil
}
