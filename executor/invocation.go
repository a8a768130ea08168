package executor

import (
	"fmt"
	"strings"

	"github.com/cretz/sandboxd/runtime"
)

// BuildInvocation returns the interpreter argv for running code under d.
// When objBase64 is non-empty it is decoded inside the wrapper. If the code
// defines main, the wrapper calls main(obj) and prints a non-empty result;
// obj is None/null when objBase64 is empty. Python code runs inside a
// wrapper function body, JS code at the top level of the script.
func BuildInvocation(d runtime.Descriptor, code, objBase64 string) (command string, args []string) {
	if d.Family == runtime.FamilyJS {
		return d.Command, []string{"-e", jsWrapper(code, objBase64)}
	}
	return d.Command, []string{"-c", pythonWrapper(code, objBase64)}
}

func pythonWrapper(code, objBase64 string) string {
	indented := strings.ReplaceAll(code, "\n", "\n    ")
	return fmt.Sprintf(`import base64
import json
import sys

def run_user_code():
    %s

    obj_base64 = %q
    obj = None
    if obj_base64:
        try:
            decoded = base64.b64decode(obj_base64).decode('utf-8')
            obj = json.loads(decoded)
        except Exception as e:
            print(f"Error decoding input: {e}", file=sys.stderr)
            return

    if 'main' in locals():
        try:
            result = main(obj)
            if result is not None:
                print(result)
        except Exception as e:
            print(f"Error in main(obj): {e}", file=sys.stderr)
            raise e

if __name__ == "__main__":
    run_user_code()
`, indented, objBase64)
}

func jsWrapper(code, objBase64 string) string {
	return fmt.Sprintf(`const base64 = %q;
let obj = null;
if (base64) {
    try {
        obj = JSON.parse(Buffer.from(base64, 'base64').toString('utf-8'));
    } catch (e) {
        process.stderr.write("Error decoding input: " + e + "\n");
    }
}

%s

async function run() {
    if (typeof main === 'function') {
        try {
            const result = await main(obj);
            if (result !== undefined) console.log(result);
        } catch (e) {
            process.stderr.write("Error in main(obj): " + e + "\n");
            process.exitCode = 1;
        }
    }
}
run();
`, objBase64, code)
}
