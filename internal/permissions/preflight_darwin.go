package permissions

/*
#cgo LDFLAGS: -framework ApplicationServices -framework CoreFoundation -framework CoreGraphics
#include <ApplicationServices/ApplicationServices.h>
#include <CoreFoundation/CoreFoundation.h>
#include <CoreGraphics/CoreGraphics.h>

static int axTrusted(int prompt) {
    CFMutableDictionaryRef opts = CFDictionaryCreateMutable(NULL, 0, NULL, NULL);
    CFDictionarySetValue(opts, kAXTrustedCheckOptionPrompt, prompt ? kCFBooleanTrue : kCFBooleanFalse);
    Boolean trusted = AXIsProcessTrustedWithOptions(opts);
    CFRelease(opts);
    return trusted ? 1 : 0;
}

static int screenCaptureAllowed(int prompt) {
    return prompt ? CGRequestScreenCaptureAccess() : CGPreflightScreenCaptureAccess();
}
*/
import "C"

func granted(p Permission) bool {
	switch p {
	case ScreenRecording:
		return C.screenCaptureAllowed(0) != 0
	case Accessibility:
		return C.axTrusted(0) != 0
	}
	return false
}

func request(p Permission) {
	switch p {
	case ScreenRecording:
		C.screenCaptureAllowed(1)
	case Accessibility:
		C.axTrusted(1)
	}
}
