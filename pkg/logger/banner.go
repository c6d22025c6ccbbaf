package logger

import (
	"fmt"
	"os"

	"github.com/hardwaylabs/jwt-hack/pkg/version"
)

const bannerArt = `
      ██╗██╗    ██╗████████╗      ██╗  ██╗ █████╗  ██████╗██╗  ██╗
      ██║██║    ██║╚══██╔══╝      ██║  ██║██╔══██╗██╔════╝██║ ██╔╝
      ██║██║ █╗ ██║   ██║         ███████║███████║██║     █████╔╝
 ██   ██║██║███╗██║   ██║         ██╔══██║██╔══██║██║     ██╔═██╗
 ╚█████╔╝╚███╔███╔╝   ██║         ██║  ██║██║  ██║╚██████╗██║  ██╗
  ╚════╝  ╚══╝╚══╝    ╚═╝         ╚═╝  ╚═╝╚═╝  ╚═╝ ╚═════╝╚═╝  ╚═╝
`

// Banner prints the startup banner with version information to stderr.
func Banner() {
	if UseColors() {
		fmt.Fprintf(os.Stderr, "%s%s%s\n", colorBlue, bannerArt, colorReset)
		fmt.Fprintf(os.Stderr, "%s          JSON Web Token Hack Toolkit - %s%s%s\n\n",
			colorYellow, colorGreen, version.Version, colorReset)
		return
	}
	fmt.Fprintf(os.Stderr, "%s\n", bannerArt)
	fmt.Fprintf(os.Stderr, "          JSON Web Token Hack Toolkit - %s\n\n", version.Version)
}
