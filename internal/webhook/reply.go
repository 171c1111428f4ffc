// Copyright (c) 2026 John Earle
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package webhook

import (
	"strings"

	"github.com/linkharvest/ingestion/internal/models"
)

// detectorMode is the three-way control-flow variant a detector tag selects.
type detectorMode int

const (
	modeExtraction detectorMode = iota
	modeAutoReply
	modeAutoReplyThenExtraction
)

// detectorModeFor maps detector tags onto control-flow variants. The
// autoresponder replies and stops; recadrage replies and then continues on
// to link extraction from whatever the payload already carries.
func detectorModeFor(d models.Detector) detectorMode {
	switch d {
	case models.DetectorAutoresponder:
		return modeAutoReply
	case models.DetectorRecadrage:
		return modeAutoReplyThenExtraction
	default:
		return modeExtraction
	}
}

// composeReply picks the canned reply for a detector event.
//
// The urgency check is asymmetric on purpose, matching observed production
// behaviour: autoresponder keys on "urgent" in the body content, recadrage
// on "urgence" in the subject.
func composeReply(e *models.InboundEvent) (subject, html string) {
	switch e.Detector {
	case models.DetectorRecadrage:
		if strings.Contains(strings.ToLower(e.Subject), "urgence") {
			return "Re: " + e.Subject, recadrageUrgentReply
		}
		return "Re: " + e.Subject, recadrageReply
	default:
		if strings.Contains(strings.ToLower(e.RawContent), "urgent") {
			return "Re: " + e.Subject, autoresponderUrgentReply
		}
		return "Re: " + e.Subject, autoresponderReply
	}
}

const autoresponderReply = `<p>Bonjour,</p>
<p>Nous avons bien re&ccedil;u votre message. Votre demande sera trait&eacute;e
dans les meilleurs d&eacute;lais.</p>
<p>Cordialement,<br>L'&eacute;quipe production</p>`

const autoresponderUrgentReply = `<p>Bonjour,</p>
<p>Nous avons bien re&ccedil;u votre message signal&eacute; comme urgent.
Il est pris en charge en priorit&eacute;.</p>
<p>Cordialement,<br>L'&eacute;quipe production</p>`

const recadrageReply = `<p>Bonjour,</p>
<p>Votre demande de recadrage a bien &eacute;t&eacute; enregistr&eacute;e.
Les fichiers livr&eacute;s seront trait&eacute;s sous 24h ouvr&eacute;es.</p>
<p>Cordialement,<br>L'&eacute;quipe production</p>`

const recadrageUrgentReply = `<p>Bonjour,</p>
<p>Votre demande de recadrage urgente a bien &eacute;t&eacute;
enregistr&eacute;e et passe en t&ecirc;te de file.</p>
<p>Cordialement,<br>L'&eacute;quipe production</p>`
