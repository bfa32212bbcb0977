/*
 * sysfmt
 *
 * Copyright 2020 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package tool

import (
	"os"
)

/*
osArgs is a local copy of os.Args (used for unit tests)
*/
var osArgs = os.Args
