package constant

// AsciiArtLogo is the application's banner shown in the root command help.
const AsciiArtLogo = `                   _ _                         _
 _ __ ___   ___  __| (_) __ _ _ __   ___   ___ | |
| '_ ` + "`" + ` _ \ / _ \/ _` + "`" + ` | |/ _` + "`" + ` | '_ \ / _ \ / _ \| |
| | | | | |  __/ (_| | | (_| | |_) | (_) | (_) | |
|_| |_| |_|\___|\__,_|_|\__,_| .__/ \___/ \___/|_|
                             |_|`
