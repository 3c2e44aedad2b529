package apierrors_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crystalos/pkg/apierrors"
	"crystalos/pkg/translator"
)

func TestMain(m *testing.M) {
	translator.InitTranslator(translator.Config{
		TranslationFolder:  "../translator/translation",
		SupportedLanguages: []string{translator.LanguageEn, translator.LanguageFr},
	})
	os.Exit(m.Run())
}

func TestCreateError_TranslatesMessage(t *testing.T) {
	err := apierrors.CreateError(404, apierrors.MsgTaskNotFound, translator.LanguageEn)
	assert.Equal(t, 404, err.ErrDetails.Code)
	assert.Equal(t, "Task not found.", err.ErrDetails.Message)

	fr := apierrors.CreateError(404, apierrors.MsgTaskNotFound, translator.LanguageFr)
	assert.Equal(t, "Tâche introuvable.", fr.ErrDetails.Message)
}

func TestGetTransErrorMsg_FallsBackToEnglish(t *testing.T) {
	assert.Equal(t, "Invalid login credentials.", apierrors.GetTransErrorMsg(apierrors.MsgInvalidCredentials, "de"))
}

func TestGetTransErrorMsg_FallbackToKey(t *testing.T) {
	assert.Equal(t, "unknown_key", apierrors.GetTransErrorMsg("unknown_key", translator.LanguageEn))
}

func TestJsonErr_ErrorMethod(t *testing.T) {
	err := apierrors.CreateError(500, apierrors.MsgFailMutation, translator.LanguageEn)
	require.Equal(t, "Code: 500, Message: Could not apply the change.", err.Error())
}

func TestEveryMessageIsTranslated(t *testing.T) {
	keys := []string{
		apierrors.MsgInvalidPayload, apierrors.MsgInvalidAPIKey, apierrors.MsgSessionRequired,
		apierrors.MsgSessionExpired, apierrors.MsgInvalidCredentials, apierrors.MsgEmailTaken,
		apierrors.MsgFailSignUp, apierrors.MsgFailSignIn, apierrors.MsgFailSignOut,
		apierrors.MsgFailResolveSession, apierrors.MsgTaskNotFound, apierrors.MsgHabitNotFound,
		apierrors.MsgProjectNotFound, apierrors.MsgTimetableNotFound, apierrors.MsgNotificationNotFound,
		apierrors.MsgFailRefresh, apierrors.MsgFailMutation, apierrors.MsgFailSeedHabits,
		apierrors.MsgFailCreateProject, apierrors.MsgFailAssistant, apierrors.MsgFailStream,
	}
	for _, key := range keys {
		for _, lang := range []string{translator.LanguageEn, translator.LanguageFr} {
			assert.NotEqual(t, key, apierrors.GetTransErrorMsg(key, lang), "%s/%s", lang, key)
		}
	}
}
