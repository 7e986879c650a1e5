package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Banner explains how to add a plugin to the development workflow.
const Banner = `
To add your plugin to the development workflow:

 1. Make sure your plugin's package.json has a "dev" script:

      "scripts": {
          "dev": "your-dev-command-here"
      }

 2. Add the plugin's folder name (relative to the packages directory)
    to the "folders" list in devlaunch.yaml:

      folders: ["client-direct", "your-plugin-folder"]

 3. Add the plugin to the "dependencies" section of agent/package.json:

      "@ai16z/your-plugin-name": "workspace:*"

 4. In agent/src/index.ts, import the plugin and add it to the
    plugins array:

      import yourPlugin from '@ai16z/your-plugin-name';
      const plugins = [existingPlugin, yourPlugin];

Your plugin's dev server will then run alongside the others.`

var bannerStyle = lipgloss.NewStyle().
	Border(lipgloss.NormalBorder()).
	BorderForeground(lipgloss.Color("3")).
	Padding(0, 2)

// PrintBanner writes the banner, boxed when color is enabled.
func PrintBanner(out io.Writer, color bool) {
	text := strings.TrimPrefix(Banner, "\n")
	if color {
		_, _ = fmt.Fprintln(out, bannerStyle.Render("IMPORTANT NOTICE:\n"+text))
		return
	}
	_, _ = fmt.Fprintf(out, "IMPORTANT NOTICE:\n%s\n\n", text)
}
