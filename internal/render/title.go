package render

import "strings"

// Banner is printed when the console starts.
const Banner = `
    _    ___  ___ ____ _   _
   / \  / _ \|_ _/ ___| \ | |
  / _ \| | | || | |   |  \| |
 / ___ \ |_| || | |___| |\  |
/_/   \_\__\_\___\____|_| \_|
`

// Title draws statement inside an ASCII box:
//
//	+--------+
//	|  text  |
//	+--------+
func Title(statement string) string {
	edge := "+--" + strings.Repeat("-", len([]rune(statement))) + "--+"
	return edge + "\n|  " + statement + "  |\n" + edge
}
