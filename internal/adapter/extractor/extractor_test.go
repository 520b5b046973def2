package extractor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sentra/internal/domain"
)

const javaSource = `package com.acme;

import java.util.List;
import java.util.Map;

public class Foo extends Base implements Runnable {
    private int count;

    public Foo(int count) {
        this.count = count;
    }

    public void bar() {
        if (count > 0) {
            for (int i = 0; i < count; i++) {
                System.out.println("{");
            }
        }
    }

    protected static List<String> baz(Map<String, Integer> in) throws IOException {
        return null;
    }
}
`

const csharpSource = `using System;
using System.Collections.Generic;

namespace Acme
{
    public class Calculator : ICalculator
    {
        public Calculator()
        {
        }

        public int Add(int a, int b)
        {
            return a + b;
        }

        public int Twice(int a) => a * 2;

        private async Task<List<int>> LoadAsync()
        {
            if (true) { return null; }
            return new List<int>();
        }
    }
}
`

const pythonSource = `import os
from typing import List, Optional

class Greeter(Base):
    def __init__(self, name):
        self.name = name

    def greet(self, loud=False):
        msg = "hi " + self.name
        if loud:
            return msg.upper()
        return msg

    async def fetch(self,
                    url):
        return await get(url)


def helper(x):
    return x * 2
`

const reactSource = `import React, { useState } from 'react';
import { Button } from "./Button";

export const Counter = ({ start }: Props) => {
  const [count, setCount] = useState(start);
  return (
    <div>
      <Button onClick={() => setCount(count + 1)}>{count}</Button>
    </div>
  );
};

export function Header(props: HeaderProps) {
  return <h1>{props.title}</h1>;
}

const Footer = () => (
  <footer>bye</footer>
);
`

const angularSource = `import { Component } from '@angular/core';

@Component({ selector: 'app-root' })
export class AppComponent {
  title = 'app';

  constructor(private http: HttpClient) {
    this.load();
  }

  ngOnInit(): void {
    if (this.title) {
      this.load();
    }
  }

  async load(): Promise<void> {
    return;
  }
}
`

func TestJavaExtraction(t *testing.T) {
	e := New()

	deps := e.Dependencies(domain.LangJava, javaSource)
	assert.Equal(t, []string{"import java.util.List;", "import java.util.Map;"}, deps)

	class := e.Class(domain.LangJava, javaSource)
	assert.Equal(t, "public class Foo extends Base implements Runnable {", class.Line)
	assert.Equal(t, "Foo", class.Name)

	fns := e.Functions(domain.LangJava, class.Name, javaSource)
	require.Len(t, fns, 2)
	assert.True(t, strings.HasPrefix(fns[0], "public void bar() {"))
	assert.True(t, strings.HasSuffix(fns[0], "}"))
	assert.Contains(t, fns[0], `System.out.println("{");`)
	assert.True(t, strings.HasPrefix(fns[1], "protected static List<String> baz("))
	assert.Contains(t, fns[1], "return null;")

	assert.Equal(t, "bar", e.FunctionName(domain.LangJava, fns[0], false))
	assert.Equal(t, "baz", e.FunctionName(domain.LangJava, fns[1], false))

	for _, fn := range fns {
		assert.NotContains(t, fn, "this.count = count", "constructor must not be extracted")
	}
}

func TestJavaPackagePrivateMethods(t *testing.T) {
	e := New()
	src := `class Foo {
    Foo() {
        init();
    }

    void bar() {
        x();
    }

    int baz(int y) {
        return y;
    }

    @Override
    public String toString() {
        return "}";
    }
}
`
	class := e.Class(domain.LangJava, src)
	require.Equal(t, "Foo", class.Name)

	fns := e.Functions(domain.LangJava, class.Name, src)
	require.Len(t, fns, 3)

	var names []string
	for _, fn := range fns {
		names = append(names, e.FunctionName(domain.LangJava, fn, false))
	}
	assert.Equal(t, []string{"bar", "baz", "toString"}, names)
	assert.Equal(t, "int baz(int y) {\n        return y;\n    }", fns[1])
	assert.True(t, strings.HasSuffix(fns[2], `return "}";`+"\n    }"))

	inline := e.Functions(domain.LangJava, "Foo", `void bar(){x();} int baz(int y){return y;} @Override public String toString(){return "}";}`)
	assert.Len(t, inline, 3)
}

func TestJavaUnitContext(t *testing.T) {
	e := New()
	ctx := e.UnitContext(domain.LangJava, []string{"import a.B;"}, "public class Foo {", "public void bar() {}")
	assert.Equal(t, "import a.B;\npublic class Foo {\n    public void bar() {}\n}", ctx)
}

func TestCSharpExtraction(t *testing.T) {
	e := New()

	assert.Equal(t, []string{"using System;", "using System.Collections.Generic;"},
		e.Dependencies(domain.LangCSharp, csharpSource))

	class := e.Class(domain.LangCSharp, csharpSource)
	assert.Equal(t, "Calculator", class.Name)
	assert.True(t, strings.HasPrefix(class.Line, "public class Calculator : ICalculator"))

	fns := e.Functions(domain.LangCSharp, class.Name, csharpSource)
	require.Len(t, fns, 3)
	assert.Equal(t, "public int Twice(int a) => a * 2;", fns[1])

	var names []string
	for _, fn := range fns {
		names = append(names, e.FunctionName(domain.LangCSharp, fn, false))
	}
	assert.Equal(t, []string{"Add", "Twice", "LoadAsync"}, names)
	assert.Contains(t, fns[2], "return new List<int>();")
}

func TestPythonExtraction(t *testing.T) {
	e := New()

	assert.Equal(t, []string{"import os", "from typing import List, Optional"},
		e.Dependencies(domain.LangPython, pythonSource))

	class := e.Class(domain.LangPython, pythonSource)
	assert.Equal(t, "class Greeter(Base):", class.Line)
	assert.Equal(t, "Greeter", class.Name)

	fns := e.Functions(domain.LangPython, class.Name, pythonSource)
	require.Len(t, fns, 3)

	var names []string
	for _, fn := range fns {
		names = append(names, e.FunctionName(domain.LangPython, fn, false))
	}
	assert.Equal(t, []string{"greet", "fetch", "helper"}, names)

	assert.True(t, strings.HasSuffix(fns[0], "return msg"))
	assert.Contains(t, fns[1], "return await get(url)")
	assert.Equal(t, "def helper(x):\n    return x * 2", fns[2])

	ctx := e.UnitContext(domain.LangPython, []string{"import os"}, class.Line, fns[2])
	assert.Equal(t, "import os\ndef helper(x):\n    return x * 2", ctx)
}

func TestReactExtraction(t *testing.T) {
	e := New()

	assert.Equal(t, domain.FrameworkReact, DetectFramework(reactSource))
	assert.True(t, e.ReactLike(domain.LangTSX, reactSource))
	assert.Len(t, e.Dependencies(domain.LangTSX, reactSource), 2)

	class := e.Class(domain.LangTSX, reactSource)
	assert.Empty(t, class.Line)
	assert.Empty(t, class.Name)

	fns := e.Functions(domain.LangTSX, class.Name, reactSource)
	require.Len(t, fns, 3)

	var names []string
	for _, fn := range fns {
		names = append(names, e.FunctionName(domain.LangTSX, fn, true))
	}
	assert.Equal(t, []string{"Counter", "Header", "Footer"}, names)
	assert.True(t, strings.HasSuffix(fns[2], ");"))
}

func TestAngularExtraction(t *testing.T) {
	e := New()

	assert.Equal(t, domain.FrameworkAngular, DetectFramework(angularSource))
	assert.False(t, e.ReactLike(domain.LangTypeScript, angularSource))

	class := e.Class(domain.LangTypeScript, angularSource)
	assert.Equal(t, "export class AppComponent {", class.Line)
	assert.Equal(t, "AppComponent", class.Name)

	fns := e.Functions(domain.LangTypeScript, class.Name, angularSource)
	require.Len(t, fns, 2)
	assert.Equal(t, "ngOnInit", e.FunctionName(domain.LangTypeScript, fns[0], false))
	assert.Equal(t, "load", e.FunctionName(domain.LangTypeScript, fns[1], false))

	ctx := e.UnitContext(domain.LangTypeScript, nil, class.Line, fns[1])
	assert.True(t, strings.HasPrefix(ctx, "export class AppComponent {\n    async load()"))
	assert.True(t, strings.HasSuffix(ctx, "\n}"))
}

func TestDetectFramework(t *testing.T) {
	tests := []struct {
		name string
		text string
		want domain.Framework
	}{
		{"decorator", "@Injectable()\nexport class Svc {}", domain.FrameworkAngular},
		{"template binding", `<input [(ngModel)]="name">`, domain.FrameworkAngular},
		{"react hook", "const [a, setA] = useState(0);", domain.FrameworkReact},
		{"react import", `import { useMemo } from "react";`, domain.FrameworkReact},
		{"jsx with default import", "import React from 'react';\nconst A = () => <Box />;", domain.FrameworkReact},
		{"plain", "class Foo {}", domain.FrameworkUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectFramework(tt.text))
		})
	}
}

func TestMalformedInputYieldsEmpty(t *testing.T) {
	e := New()

	assert.Empty(t, e.Functions(domain.LangJava, "A", "public void broken() { if (x) {"))
	assert.Empty(t, e.Functions(domain.LangJava, "A", "public class A { public A() {} }"))
	assert.Empty(t, e.Functions(domain.LangPython, "", "x = 1\n"))
	assert.Empty(t, e.ClassDeclaration(domain.LangCSharp, "int x = 1;"))
	assert.Empty(t, e.ClassName(domain.LangTypeScript, ""))
	assert.Empty(t, e.FunctionName(domain.LangJava, "{}", false))
}

func TestSupports(t *testing.T) {
	e := New()
	assert.True(t, e.Supports(domain.LangTSX))
	assert.False(t, e.Supports(domain.Language("go")))
}

func TestDedupe(t *testing.T) {
	tests := []struct {
		in   []string
		want []string
	}{
		{[]string{"foo", "foo", "bar"}, []string{"foo", "foo_Overload2", "bar"}},
		{[]string{"foo", "foo", "foo"}, []string{"foo", "foo_Overload2", "foo_Overload3"}},
		{[]string{"a", "b", "a", "b", "a"}, []string{"a", "b", "a_Overload2", "b_Overload2", "a_Overload3"}},
		{[]string{"foo", "foo_Overload2"}, []string{"foo", "foo_Overload2"}},
		{[]string{"foo_Overload2", "foo"}, []string{"foo_Overload2", "foo_Overload3"}},
		{[]string{"foo", "foo_Overload2", "foo_Overload2"}, []string{"foo", "foo_Overload2", "foo_Overload3"}},
	}
	for _, tt := range tests {
		var names []string
		for _, candidate := range tt.in {
			names = append(names, Dedupe(names, candidate))
		}
		assert.Equal(t, tt.want, names)
	}
}

func TestBaseName(t *testing.T) {
	assert.Equal(t, "foo", BaseName("foo_Overload12"))
	assert.Equal(t, "foo_Overloaded", BaseName("foo_Overloaded"))
}
