package tts

/*
#cgo LDFLAGS: -lespeak-ng
#include <stdlib.h>
#include <string.h>
#include <espeak-ng/speak_lib.h>

int
espeak_say(const char *text, const char *lang, int gender, int rate, int volume)
{
	if (!text)
	{ return -1; }

	if (espeak_Initialize(AUDIO_OUTPUT_SYNCH_PLAYBACK, 500, NULL, 0) < 0)
	{ return -2; }

	espeak_VOICE specs;
	memset(&specs, 0, sizeof(specs));
	specs.languages = lang;
	specs.gender = gender;
	espeak_SetVoiceByProperties(&specs);

	espeak_SetParameter(espeakRATE, rate, 0);
	espeak_SetParameter(espeakVOLUME, volume, 0);

	espeak_Synth(text, strlen(text) + 1, 0, 0, 0, espeakCHARS_AUTO, NULL, NULL);
	espeak_Synchronize();
	espeak_Terminate();

	return 0;
}
*/
import "C"

import (
	"fmt"
	"unsafe"
)

// espeak-ng's default speaking rate, words per minute.
const baseRate = 175

type Options struct {
	Language    string  // voice language, e.g. "en"
	FemaleVoice bool    // prefer a female voice
	Rate        float64 // speed multiplier, clamped to [0.5, 1.5]
	Volume      float64 // clamped to [0.1, 1.0]
}

func DefaultOptions() Options {
	return Options{
		Language:    "en",
		FemaleVoice: true,
		Rate:        0.75,
		Volume:      0.9,
	}
}

// Speak vocalizes text synchronously. An empty string is a no-op.
func Speak(text string, opt Options) error {
	if text == "" {
		return nil
	}

	lang := opt.Language
	if lang == "" {
		lang = "en"
	}
	gender := 1 // ENGENDER_MALE
	if opt.FemaleVoice {
		gender = 2
	}
	rate := int(baseRate * clamp(opt.Rate, 0.5, 1.5))
	volume := int(100 * clamp(opt.Volume, 0.1, 1.0))

	ctext := C.CString(text)
	defer C.free(unsafe.Pointer(ctext))
	clang := C.CString(lang)
	defer C.free(unsafe.Pointer(clang))

	rc := C.espeak_say(ctext, clang, C.int(gender), C.int(rate), C.int(volume))
	if rc != 0 {
		return fmt.Errorf("espeak_say failed: %d", int(rc))
	}

	return nil
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
