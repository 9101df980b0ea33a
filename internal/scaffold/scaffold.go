package scaffold

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// TargetFramework is the fixed platform/runtime version every generated
// project targets.
const TargetFramework = "net8.0"

const descriptorTemplate = `<Project Sdk="Microsoft.NET.Sdk">

  <PropertyGroup>
    <OutputType>Exe</OutputType>
    <TargetFramework>%s</TargetFramework>
    <Nullable>enable</Nullable>
    <ImplicitUsings>disable</ImplicitUsings>
    <AssemblyName>%s</AssemblyName>
    <PublishAot>false</PublishAot>
  </PropertyGroup>

</Project>
`

// SourcePath returns the path of the generated source file for the layout.
func (l Layout) SourcePath() string {
	return filepath.Join(l.SourceDir, l.Name+".cs")
}

// DescriptorPath returns the path of the generated project descriptor.
func (l Layout) DescriptorPath() string {
	return filepath.Join(l.SourceDir, l.Name+".csproj")
}

// Write emits exactly two files into the (already reset) source directory:
// the source file and the project descriptor. Imports are sorted before
// emission so the generated file is deterministic.
func (l Layout) Write(imports []string, source string) error {
	if err := os.WriteFile(l.SourcePath(), []byte(renderSource(l.Name, imports, source)), 0o644); err != nil {
		return fmt.Errorf("writing source file: %w", err)
	}
	descriptor := fmt.Sprintf(descriptorTemplate, TargetFramework, l.Name)
	if err := os.WriteFile(l.DescriptorPath(), []byte(descriptor), 0o644); err != nil {
		return fmt.Errorf("writing project descriptor: %w", err)
	}
	return nil
}

func renderSource(name string, imports []string, source string) string {
	sorted := append([]string(nil), imports...)
	sort.Strings(sorted)

	var b strings.Builder
	for _, imp := range sorted {
		fmt.Fprintf(&b, "using %s;\n", imp)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "namespace %s;\n", name)
	b.WriteString("\n")
	b.WriteString(source)
	if !strings.HasSuffix(source, "\n") {
		b.WriteByte('\n')
	}
	return b.String()
}
